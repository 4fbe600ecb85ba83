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

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/protocol"
	"github.com/algorand/go-invoker/util/db"
)

// accountsSchemaVersion is stored in the sqlite user_version.
const accountsSchemaVersion = 1

var accountsSchema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		address TEXT PRIMARY KEY,
		data BLOB NOT NULL)`,
}

// accountRow is one row of the accounts table. data holds the
// msgpack-encoded basics.AccountData.
type accountRow struct {
	Address string `db:"address"`
	Data    []byte `db:"data"`
}

// SQLStore is an AccountStore backed by sqlite.
type SQLStore struct {
	dbs db.Pair
}

// OpenSQLStore opens, and creates if needed, the account database at
// filename.
func OpenSQLStore(ctx context.Context, filename string, inMemory bool) (*SQLStore, error) {
	dbs, err := db.OpenPair(filename, inMemory)
	if err != nil {
		return nil, fmt.Errorf("open account database %s: %w", filename, err)
	}
	err = dbs.Wdb.Atomic(ctx, "accounts schema", func(ctx context.Context, tx *sqlx.Tx) error {
		version, err := db.GetUserVersion(ctx, tx)
		if err != nil {
			return err
		}
		if version > accountsSchemaVersion {
			return fmt.Errorf("account database version %d is newer than supported version %d", version, accountsSchemaVersion)
		}
		for _, stmt := range accountsSchema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		_, err = db.SetUserVersion(ctx, tx, accountsSchemaVersion)
		return err
	})
	if err != nil {
		dbs.Close()
		return nil, err
	}
	return &SQLStore{dbs: dbs}, nil
}

// Close releases the database handles.
func (s *SQLStore) Close() {
	s.dbs.Close()
}

func lookupTx(ctx context.Context, tx *sqlx.Tx, addr basics.Address) (basics.AccountData, bool, error) {
	var row accountRow
	err := tx.GetContext(ctx, &row, "SELECT address, data FROM accounts WHERE address = ?", addr.String())
	if errors.Is(err, sql.ErrNoRows) {
		return basics.AccountData{}, false, nil
	}
	if err != nil {
		return basics.AccountData{}, false, err
	}
	var ad basics.AccountData
	if err := protocol.Decode(row.Data, &ad); err != nil {
		return basics.AccountData{}, false, fmt.Errorf("account %s: %w", addr, err)
	}
	return ad, true, nil
}

func putTx(ctx context.Context, tx *sqlx.Tx, addr basics.Address, ad basics.AccountData) error {
	row := accountRow{Address: addr.String(), Data: protocol.Encode(&ad)}
	_, err := tx.NamedExecContext(ctx, "INSERT OR REPLACE INTO accounts (address, data) VALUES (:address, :data)", row)
	return err
}

// Lookup implements AccountStore.
func (s *SQLStore) Lookup(addr basics.Address) (ad basics.AccountData, ok bool, err error) {
	err = s.dbs.Rdb.Atomic(context.Background(), "lookup", func(ctx context.Context, tx *sqlx.Tx) (err error) {
		ad, ok, err = lookupTx(ctx, tx, addr)
		return
	})
	return
}

// Put implements AccountStore.
func (s *SQLStore) Put(ctx context.Context, rec basics.BalanceRecord) error {
	if err := rec.Addr.Validate(); err != nil {
		return err
	}
	return s.dbs.Wdb.Atomic(ctx, "put", func(ctx context.Context, tx *sqlx.Tx) error {
		return putTx(ctx, tx, rec.Addr, rec.AccountData)
	})
}

// Commit implements AccountStore.
func (s *SQLStore) Commit(ctx context.Context, addr basics.Address, seq uint64, fee uint64) error {
	return s.dbs.Wdb.Atomic(ctx, "commit", func(ctx context.Context, tx *sqlx.Tx) error {
		ad, _, err := lookupTx(ctx, tx, addr)
		if err != nil {
			return err
		}
		updated, err := chargeFee(addr, ad, seq, fee)
		if err != nil {
			return err
		}
		return putTx(ctx, tx, addr, updated)
	})
}

func (s *SQLStore) get(addr basics.Address) (basics.AccountData, error) {
	ad, _, err := s.Lookup(addr)
	return ad, err
}

// SeqNum implements verify.LedgerForValidation.
func (s *SQLStore) SeqNum(addr basics.Address) (uint64, error) {
	ad, err := s.get(addr)
	return ad.SeqNum, err
}

// AvailableBalance implements verify.LedgerForValidation.
func (s *SQLStore) AvailableBalance(addr basics.Address) (uint64, error) {
	ad, err := s.get(addr)
	return ad.AvailableBalance(), err
}

// LowThreshold implements verify.LedgerForValidation.
func (s *SQLStore) LowThreshold(addr basics.Address) (uint8, error) {
	ad, err := s.get(addr)
	return ad.Thresholds.Low, err
}

// SignerWeight implements verify.LedgerForValidation.
func (s *SQLStore) SignerWeight(addr basics.Address, key crypto.PublicKey) (uint64, error) {
	ad, err := s.get(addr)
	if err != nil {
		return 0, err
	}
	return ad.SignerWeight(addr, key), nil
}
