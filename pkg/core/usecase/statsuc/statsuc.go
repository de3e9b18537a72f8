// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package statsuc contains the stats UseCase which computes the admin
// dashboard figures.
package statsuc

import (
	"context"

	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/shopspring/decimal"
)

// UseCase represents a stats use case.
type UseCase struct {
	pool     repo.Pool
	carsrp   repo.Cars
	usersrp  repo.Users
	ordersrp repo.Orders
}

// New instantiates a stats use case.
func New(
	p repo.Pool, cars repo.Cars, users repo.Users, orders repo.Orders,
) *UseCase {
	return &UseCase{
		pool:     p,
		carsrp:   cars,
		usersrp:  users,
		ordersrp: orders,
	}
}

// Dashboard computes the sales, customers, and listings figures.
// All queries run in one read-only transaction, so they observe a
// consistent snapshot. The average value per customer is zero when
// there are no customers.
func (uc *UseCase) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	d := &model.Dashboard{}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			count, sum, err := uc.ordersrp.Tx(tx).Totals(ctx)
			if err != nil {
				return err
			}
			d.Sales.Count = count
			d.Sales.Amount = model.CentsToAmount(sum)
			d.Customers.Count, err = uc.usersrp.Tx(tx).Count(ctx)
			if err != nil {
				return err
			}
			if d.Customers.Count > 0 {
				d.Customers.AverageValue = d.Sales.Amount.Div(
					decimal.NewFromInt(d.Customers.Count),
				).Round(2)
			}
			d.Cars.Active, d.Cars.Inactive, err = uc.carsrp.Tx(tx).
				CountByAvailability(ctx)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
