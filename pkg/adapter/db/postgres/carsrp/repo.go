// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrp implements the repo.Cars interface for the cars
// catalog table.
package carsrp

import (
	"context"
	"time"

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

func (cars *Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return Get(ctx, cq.Conn, carID)
}

func (cq connQueryer) List(ctx context.Context, f model.CarFilter) ([]model.Car, error) {
	return List(ctx, cq.Conn, f)
}

func (cq connQueryer) ListSummaries(ctx context.Context) ([]model.CarSummary, error) {
	return ListSummaries(ctx, cq.Conn)
}

func (cq connQueryer) CountByAvailability(ctx context.Context) (active, inactive int64, err error) {
	return CountByAvailability(ctx, cq.Conn)
}

type txQueryer struct {
	*postgres.Tx
}

func (cars *Repo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return Get(ctx, tq.Tx, carID)
}

func (tq txQueryer) List(ctx context.Context, f model.CarFilter) ([]model.Car, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) ListSummaries(ctx context.Context) ([]model.CarSummary, error) {
	return ListSummaries(ctx, tq.Tx)
}

func (tq txQueryer) CountByAvailability(ctx context.Context) (active, inactive int64, err error) {
	return CountByAvailability(ctx, tq.Tx)
}

func (tq txQueryer) GetForUpdate(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return GetForUpdate(ctx, tq.Tx, carID)
}

func (tq txQueryer) Create(ctx context.Context, car *model.Car) error {
	return Create(ctx, tq.Tx, car)
}

func (tq txQueryer) Update(ctx context.Context, car *model.Car) (*model.Car, error) {
	return Update(ctx, tq.Tx, car)
}

func (tq txQueryer) SetAvailability(ctx context.Context, carID uuid.UUID, available bool, now time.Time) (*model.Car, error) {
	return SetAvailability(ctx, tq.Tx, carID, available, now)
}

func (tq txQueryer) Delete(ctx context.Context, carID uuid.UUID) error {
	return Delete(ctx, tq.Tx, carID)
}
