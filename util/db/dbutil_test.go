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

package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/algorand/go-invoker/test/partitiontest"
)

func memDB(t *testing.T) Pair {
	p, err := OpenPair(uuid.NewString(), true)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestAtomicCommitAndRollback(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := memDB(t)
	ctx := context.Background()
	require.NoError(t, p.Wdb.Atomic(ctx, "create", func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, "CREATE TABLE kv (k TEXT PRIMARY KEY, v INTEGER)")
		return err
	}))

	require.NoError(t, p.Wdb.Atomic(ctx, "insert", func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO kv (k, v) VALUES (?, ?)", "a", 1)
		return err
	}))

	failure := errors.New("abort")
	err := p.Wdb.Atomic(ctx, "rolled back", func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE kv SET v = 2 WHERE k = ?", "a"); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	err = p.Wdb.Atomic(ctx, "panics", func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE kv SET v = 3 WHERE k = ?", "a"); err != nil {
			return err
		}
		panic("boom")
	})
	require.EqualError(t, err, "boom")

	var v int
	require.NoError(t, p.Rdb.Atomic(ctx, "read", func(ctx context.Context, tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &v, "SELECT v FROM kv WHERE k = ?", "a")
	}))
	require.Equal(t, 1, v)
}

func TestAtomicCanceledContext(t *testing.T) {
	partitiontest.PartitionTest(t)

	p := memDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	err := p.Wdb.Atomic(ctx, "canceled", func(ctx context.Context, tx *sqlx.Tx) error {
		ran = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, ran)
}

func TestVersioning(t *testing.T) {
	partitiontest.PartitionTest(t)

	p, err := OpenPair(filepath.Join(t.TempDir(), "versions.sqlite"), false)
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()
	require.NoError(t, p.Wdb.Atomic(ctx, "versions", func(ctx context.Context, tx *sqlx.Tx) error {
		ver, err := GetUserVersion(ctx, tx)
		require.NoError(t, err)
		require.Equal(t, int32(0), ver)

		prev, err := SetUserVersion(ctx, tx, 5)
		require.NoError(t, err)
		require.Equal(t, int32(0), prev)

		prev, err = SetUserVersion(ctx, tx, 9)
		require.NoError(t, err)
		require.Equal(t, int32(5), prev)
		return nil
	}))

	var ver int32
	require.NoError(t, p.Rdb.Atomic(ctx, "read version", func(ctx context.Context, tx *sqlx.Tx) (err error) {
		ver, err = GetUserVersion(ctx, tx)
		return
	}))
	require.Equal(t, int32(9), ver)
}

func TestURI(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Equal(t, "file:a.db?_busy_timeout=1000&_synchronous=full&_txlock=immediate", URI("a.db", false, false))
	require.Equal(t, "file:a.db?_busy_timeout=1000&_synchronous=full&mode=memory&cache=shared", URI("a.db", true, true))
}
