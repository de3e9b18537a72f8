// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package downloadsrp implements the repo.Downloads interface for the
// download verifications table.
package downloadsrp

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

func (downloads *Repo) Conn(c repo.Conn) repo.DownloadsQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, dv *model.DownloadVerification) error {
	return Create(ctx, cq.Conn, dv)
}

func (cq connQueryer) Get(ctx context.Context, dvID uuid.UUID) (*model.DownloadVerification, error) {
	return Get(ctx, cq.Conn, dvID)
}

func (cq connQueryer) DeleteByCar(ctx context.Context, carID uuid.UUID) (int64, error) {
	return DeleteByCar(ctx, cq.Conn, carID)
}

type txQueryer struct {
	*postgres.Tx
}

func (downloads *Repo) Tx(tx repo.Tx) repo.DownloadsQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, dv *model.DownloadVerification) error {
	return Create(ctx, tq.Tx, dv)
}

func (tq txQueryer) Get(ctx context.Context, dvID uuid.UUID) (*model.DownloadVerification, error) {
	return Get(ctx, tq.Tx, dvID)
}

func (tq txQueryer) DeleteByCar(ctx context.Context, carID uuid.UUID) (int64, error) {
	return DeleteByCar(ctx, tq.Tx, carID)
}
