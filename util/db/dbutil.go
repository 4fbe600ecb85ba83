// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

// Package db wraps the sqlite databases behind the account store.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/algorand/go-invoker/logging"
)

/* database utils */

const busy = 1000

// maxTxRetries bounds how often a transaction is retried on contention.
const maxTxRetries = 1000

const warnTxRetries = 10

// ErrTooManyRetries is returned when a transaction kept hitting contention.
var ErrTooManyRetries = errors.New("database transaction retried too many times")

// Accessor is an interface to a sqlite database.
type Accessor struct {
	Handle   *sqlx.DB
	readOnly bool
}

// MakeAccessor creates a new accessor.
func MakeAccessor(dbfilename string, readOnly bool, inMemory bool) (Accessor, error) {
	var db Accessor
	db.readOnly = readOnly

	var err error
	db.Handle, err = sqlx.Open("sqlite3", URI(dbfilename, readOnly, inMemory)+"&_journal_mode=wal")
	if err != nil {
		return Accessor{}, err
	}
	if err = db.Handle.Ping(); err != nil {
		db.Handle.Close()
		return Accessor{}, err
	}
	return db, nil
}

// Close closes the connection.
func (db Accessor) Close() {
	db.Handle.Close()
}

// Atomic executes fn in one database transaction, retrying while sqlite
// reports contention. fn must be idempotent. A panic inside fn rolls the
// transaction back and is returned as an error.
func (db Accessor) Atomic(ctx context.Context, fnDescription string, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	descr := "w"
	if db.readOnly {
		descr = "r"
	}

	start := time.Now()
	defer func() {
		delta := time.Since(start)
		if delta > time.Second {
			logging.Base().With("description", fnDescription).Warnf("dbatomic(%v): tx took %v", descr, delta)
		}
	}()

	// the sql library drops panics inside an active transaction
	guardedFn := func(tx *sqlx.Tx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				var ok bool
				err, ok = r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
			}
		}()
		return fn(ctx, tx)
	}

	for i := 0; ; i++ {
		if i > 0 && i%warnTxRetries == 0 {
			if i >= maxTxRetries {
				logging.Base().Errorf("dbatomic(%v): %d retries (last err: %v)", descr, i, err)
				return fmt.Errorf("%s: %w: %v", fnDescription, ErrTooManyRetries, err)
			}
			logging.Base().With("description", fnDescription).Warnf("dbatomic(%v): %d retries (last err: %v)", descr, i, err)
		}
		if err = ctx.Err(); err != nil {
			return err
		}

		var tx *sqlx.Tx
		tx, err = db.Handle.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable, ReadOnly: db.readOnly})
		if dbretry(err) {
			continue
		} else if err != nil {
			return err
		}

		err = guardedFn(tx)
		if err != nil {
			tx.Rollback()
			if dbretry(err) {
				continue
			}
			return err
		}

		err = tx.Commit()
		if err == nil || !dbretry(err) {
			return err
		}
	}
}

// GetUserVersion returns the schema version stored in the database.
func GetUserVersion(ctx context.Context, tx *sqlx.Tx) (userVersion int32, err error) {
	err = tx.GetContext(ctx, &userVersion, "PRAGMA user_version")
	return
}

// SetUserVersion stores the schema version and returns the previous one.
func SetUserVersion(ctx context.Context, tx *sqlx.Tx, userVersion int32) (previousUserVersion int32, err error) {
	previousUserVersion, err = GetUserVersion(ctx, tx)
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", userVersion))
	if err != nil {
		return 0, err
	}
	return previousUserVersion, nil
}

// URI returns the sqlite URI given a db filename as an input.
func URI(filename string, readOnly bool, memory bool) string {
	uri := fmt.Sprintf("file:%s?_busy_timeout=%d&_synchronous=full", filename, busy)
	if !readOnly {
		uri += "&_txlock=immediate"
	}
	if memory {
		uri += "&mode=memory"
		uri += "&cache=shared"
	}
	return uri
}

// dbretry returns true if the error might be temporary
func dbretry(obj error) bool {
	var err sqlite3.Error
	return errors.As(obj, &err) && (err.Code == sqlite3.ErrLocked || err.Code == sqlite3.ErrBusy)
}
