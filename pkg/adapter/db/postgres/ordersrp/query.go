// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package ordersrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/model"
)

type gOrder struct {
	ID               uuid.UUID `gorm:"primaryKey;type:uuid"`
	UserID           uuid.UUID `gorm:"type:uuid"`
	CarID            uuid.UUID `gorm:"type:uuid"`
	PricePaidInCents int64
	CreatedAt        time.Time
}

func (gord *gOrder) TableName() string {
	return "orders"
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, o *model.Order) error {
	err := q.GORM(ctx).Create(&gOrder{
		ID:               o.ID,
		UserID:           o.UserID,
		CarID:            o.CarID,
		PricePaidInCents: o.PricePaidInCents,
		CreatedAt:        o.CreatedAt,
	}).Error
	return postgres.Err(err)
}

func CountByCar[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (int64, error) {
	var n int64
	err := q.GORM(ctx).Model(&gOrder{}).Where("car_id = ?", carID).Count(&n).Error
	if err != nil {
		return 0, postgres.Err(err)
	}
	return n, nil
}

func ExistsForEmail[Q postgres.Queryer](ctx context.Context, q Q, email string, carID uuid.UUID) (bool, error) {
	var n int64
	err := q.GORM(ctx).Model(&gOrder{}).Joins(
		"JOIN users ON users.id = orders.user_id",
	).Where(
		"users.email = ? AND orders.car_id = ?", email, carID,
	).Count(&n).Error
	if err != nil {
		return false, postgres.Err(err)
	}
	return n > 0, nil
}

func Totals[Q postgres.Queryer](ctx context.Context, q Q) (count, sumInCents int64, err error) {
	var t struct {
		N     int64
		Total int64
	}
	err = q.GORM(ctx).Model(&gOrder{}).Select(
		"COUNT(*) AS n, COALESCE(SUM(price_paid_in_cents), 0) AS total",
	).Scan(&t).Error
	if err != nil {
		return 0, 0, postgres.Err(err)
	}
	return t.N, t.Total, nil
}
