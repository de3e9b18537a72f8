// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// ConnHandler works with a connection which is borrowed from a Pool.
// The connection is returned to its pool when the handler returns.
type ConnHandler func(context.Context, Conn) error

// TxHandler runs statements in a transaction. Returning an error rolls
// back the transaction.
type TxHandler func(context.Context, Tx) error

// Pool lends database connections to handlers. Use cases get a Pool
// and pass the connection (or transactions which are created from it)
// to the repositories queryers.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error

	// Close waits for the borrowed connections to be returned and
	// closes all connections.
	Close() error
}

// Conn is a database connection. Statements which run directly on it
// are auto-committed one by one.
type Conn interface {
	Queryer
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn distinguishes connections from transactions.
	IsConn()
}

// Tx is a database transaction. It must not be used concurrently.
type Tx interface {
	Queryer

	// IsTx distinguishes transactions from connections.
	IsTx()
}

// Queryer runs raw SQL statements. Repositories use it for the DDL and
// catalog queries which have no ORM counterpart.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows iterates over a result set. Close must be called when the
// iteration stops early.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
}
