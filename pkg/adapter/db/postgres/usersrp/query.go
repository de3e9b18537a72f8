// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gUser struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	Email     string
	CreatedAt time.Time
}

func (gu *gUser) TableName() string {
	return "users"
}

func (gu *gUser) Model() *model.User {
	return &model.User{
		ID:        gu.ID,
		Email:     gu.Email,
		CreatedAt: gu.CreatedAt.UTC(),
	}
}

// Upsert inserts a user with email unless it exists and then returns
// the persisted user. Concurrent calls for one email agree on the
// same row because of the unique email constraint.
func Upsert[Q postgres.Queryer](ctx context.Context, q Q, email string, now time.Time) (*model.User, error) {
	gdb := q.GORM(ctx)
	err := gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&gUser{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: now.UTC(),
	}).Error
	if err != nil {
		return nil, postgres.Err(err)
	}
	var gu []gUser
	if err := gdb.Where("email = ?", email).Find(&gu).Error; err != nil {
		return nil, postgres.Err(err)
	}
	if err := postgres.One(len(gu)); err != nil {
		return nil, err
	}
	return gu[0].Model(), nil
}

func Count[Q postgres.Queryer](ctx context.Context, q Q) (int64, error) {
	var n int64
	if err := q.GORM(ctx).Model(&gUser{}).Count(&n).Error; err != nil {
		return 0, postgres.Err(err)
	}
	return n, nil
}
