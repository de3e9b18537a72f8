// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/core/model"
)

// OrdersQueryer lists the orders queries. Orders are immutable, so
// no update or delete query is provided.
type OrdersQueryer interface {
	// Create inserts o. Its ID and CreatedAt must be set already.
	Create(ctx context.Context, o *model.Order) error

	// CountByCar returns the number of orders of the carID car.
	CountByCar(ctx context.Context, carID uuid.UUID) (int64, error)

	// ExistsForEmail reports whether the user with email has ordered
	// the carID car.
	ExistsForEmail(
		ctx context.Context, email string, carID uuid.UUID,
	) (bool, error)

	// Totals returns the number of orders and sum of their paid prices.
	Totals(ctx context.Context) (count, sumInCents int64, err error)
}

// Orders interface presents expectations from the orders repository.
type Orders interface {
	Conn(Conn) OrdersQueryer
	Tx(Tx) OrdersQueryer
}
