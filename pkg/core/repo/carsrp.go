// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/core/model"
)

// CarsConnQueryer interface lists the cars catalog queries which may
// be executed with an auto-committed connection.
type CarsConnQueryer interface {
	CarsQueryer
}

// CarsTxQueryer interface lists the cars catalog queries which may be
// executed in a transaction. The GetForUpdate method locks the car row
// until the transaction ends, serializing concurrent edits of a car.
type CarsTxQueryer interface {
	CarsQueryer

	// GetForUpdate is like Get, but locks the fetched row.
	GetForUpdate(ctx context.Context, carID uuid.UUID) (*model.Car, error)

	// Create inserts car. Its ID and timestamps must be set already.
	Create(ctx context.Context, car *model.Car) error

	// Update overwrites the CarSpec fields and file paths of the car.ID car
	// and returns the updated row. Availability is kept intact.
	Update(ctx context.Context, car *model.Car) (*model.Car, error)

	// SetAvailability updates the availability flag of carID car and
	// sets its updated-at time to now.
	SetAvailability(
		ctx context.Context, carID uuid.UUID, available bool,
		now time.Time,
	) (*model.Car, error)

	// Delete removes the carID car row. Its dependent rows must be
	// removed beforehand.
	Delete(ctx context.Context, carID uuid.UUID) error
}

// CarsQueryer interface lists the read-only cars catalog queries which
// may be executed either with a connection or in a transaction.
type CarsQueryer interface {
	// Get returns the carID car or a NotFound error.
	Get(ctx context.Context, carID uuid.UUID) (*model.Car, error)

	// List returns the cars which match with the f filter.
	List(ctx context.Context, f model.CarFilter) ([]model.Car, error)

	// ListSummaries returns all cars, sorted by their names, with
	// their orders count.
	ListSummaries(ctx context.Context) ([]model.CarSummary, error)

	// CountByAvailability counts available (active) and unavailable
	// (inactive) cars.
	CountByAvailability(ctx context.Context) (active, inactive int64, err error)
}

// Cars interface presents expectations from the cars catalog
// repository. It adapts a connection or transaction to the relevant
// queryer interface.
type Cars interface {
	Conn(Conn) CarsConnQueryer
	Tx(Tx) CarsTxQueryer
}
