// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fulfillmentsrp implements the repo.Fulfillments interface.
// The payment reference is the primary key of fulfillments table, so
// claiming a payment twice is detected by the DBMS.
package fulfillmentsrp

import (
	"context"

	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (fulfillments *Repo) Conn(c repo.Conn) repo.FulfillmentsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(ctx context.Context, paymentRef string) (*model.Fulfillment, error) {
	return Get(ctx, cq.Conn, paymentRef)
}

type txQueryer struct {
	*postgres.Tx
}

func (fulfillments *Repo) Tx(tx repo.Tx) repo.FulfillmentsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(ctx context.Context, paymentRef string) (*model.Fulfillment, error) {
	return Get(ctx, tq.Tx, paymentRef)
}

func (tq txQueryer) Claim(ctx context.Context, f *model.Fulfillment) (bool, error) {
	return Claim(ctx, tq.Tx, f)
}

func (tq txQueryer) Complete(ctx context.Context, f *model.Fulfillment) error {
	return Complete(ctx, tq.Tx, f)
}
