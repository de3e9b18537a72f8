// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package ordersrp implements the repo.Orders interface.
package ordersrp

import (
	"context"

	"github.com/google/uuid"
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

func (orders *Repo) Conn(c repo.Conn) repo.OrdersQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, o *model.Order) error {
	return Create(ctx, cq.Conn, o)
}

func (cq connQueryer) CountByCar(ctx context.Context, carID uuid.UUID) (int64, error) {
	return CountByCar(ctx, cq.Conn, carID)
}

func (cq connQueryer) ExistsForEmail(ctx context.Context, email string, carID uuid.UUID) (bool, error) {
	return ExistsForEmail(ctx, cq.Conn, email, carID)
}

func (cq connQueryer) Totals(ctx context.Context) (count, sumInCents int64, err error) {
	return Totals(ctx, cq.Conn)
}

type txQueryer struct {
	*postgres.Tx
}

func (orders *Repo) Tx(tx repo.Tx) repo.OrdersQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, o *model.Order) error {
	return Create(ctx, tq.Tx, o)
}

func (tq txQueryer) CountByCar(ctx context.Context, carID uuid.UUID) (int64, error) {
	return CountByCar(ctx, tq.Tx, carID)
}

func (tq txQueryer) ExistsForEmail(ctx context.Context, email string, carID uuid.UUID) (bool, error) {
	return ExistsForEmail(ctx, tq.Tx, email, carID)
}

func (tq txQueryer) Totals(ctx context.Context) (count, sumInCents int64, err error) {
	return Totals(ctx, tq.Tx)
}
