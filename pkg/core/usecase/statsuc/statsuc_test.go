// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package statsuc_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/internal/test/sqlitedb"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/ordersrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/usecase/statsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	p := sqlitedb.New(ctx, t)
	uc := statsuc.New(p, carsrp.New(), usersrp.New(), ordersrp.New())

	d, err := uc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Zero(t, d.Sales.Count)
	assert.True(t, d.Customers.AverageValue.IsZero(), "no division by zero")

	now := time.Now().UTC()
	cars := make([]uuid.UUID, 3)
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			for i := range cars {
				cars[i] = uuid.New()
				err := carsrp.New().Tx(tx).Create(ctx, &model.Car{
					ID: cars[i],
					CarSpec: model.CarSpec{
						Name: "Car", Brand: "B", Model: "M", Year: 2000,
						Mileage: 1, FuelType: "diesel", Description: "D",
						PriceInCents: 100,
					},
					FilePath:               "f.pdf",
					ImagePath:              "/images/i.png",
					IsAvailableForPurchase: i > 0,
					CreatedAt:              now,
					UpdatedAt:              now,
				})
				if err != nil {
					return err
				}
			}
			// 100.00 + 0.01 by one user and 50.00 by another
			for _, o := range []struct {
				email string
				cents int64
			}{
				{"a@example.com", 10000},
				{"a@example.com", 1},
				{"b@example.com", 5000},
			} {
				u, err := usersrp.New().Tx(tx).Upsert(ctx, o.email, now)
				if err != nil {
					return err
				}
				err = ordersrp.New().Tx(tx).Create(ctx, &model.Order{
					ID: uuid.New(), UserID: u.ID, CarID: cars[1],
					PricePaidInCents: o.cents, CreatedAt: now,
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	})
	require.NoError(t, err)

	d, err = uc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.Sales.Count)
	assert.Equal(t, "150.01", d.Sales.Amount.StringFixed(2))
	assert.Equal(t, int64(2), d.Customers.Count)
	assert.Equal(t, "75.01", d.Customers.AverageValue.StringFixed(2))
	assert.Equal(t, int64(2), d.Cars.Active)
	assert.Equal(t, int64(1), d.Cars.Inactive)
}
