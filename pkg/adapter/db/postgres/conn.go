// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/carmarket/pkg/core/repo"
	"gorm.io/gorm"
)

// Conn is a single connection which is borrowed from a Pool.
type Conn struct {
	session
}

func newConn(db *gorm.DB) *Conn {
	return &Conn{session{db: db}}
}

type TxHandler = repo.TxHandler

// Tx runs f in a new transaction. The transaction is committed when f
// returns nil and is rolled back when f fails or panics.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	gtx := c.db.WithContext(ctx).Begin()
	if err = gtx.Error; err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if r := recover(); r != nil {
			err = fmt.Errorf("panicked: %v", r)
		}
		if rbErr := gtx.Rollback().Error; rbErr != nil {
			err = fmt.Errorf("%w, rollback: %w", err, rbErr)
		}
	}()
	if err = f(ctx, &Tx{session{db: gtx}}); err != nil {
		return fmt.Errorf("handler: %w", err)
	}
	committed = true
	if err = gtx.Commit().Error; err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (c *Conn) IsConn() {
}
