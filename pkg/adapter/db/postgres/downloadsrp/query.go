// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package downloadsrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/model"
)

type gDownload struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	CarID     uuid.UUID `gorm:"type:uuid"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (gd *gDownload) TableName() string {
	return "download_verifications"
}

func (gd *gDownload) Model() *model.DownloadVerification {
	return &model.DownloadVerification{
		ID:        gd.ID,
		CarID:     gd.CarID,
		ExpiresAt: gd.ExpiresAt.UTC(),
		CreatedAt: gd.CreatedAt.UTC(),
	}
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, dv *model.DownloadVerification) error {
	err := q.GORM(ctx).Create(&gDownload{
		ID:        dv.ID,
		CarID:     dv.CarID,
		ExpiresAt: dv.ExpiresAt,
		CreatedAt: dv.CreatedAt,
	}).Error
	return postgres.Err(err)
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, dvID uuid.UUID) (*model.DownloadVerification, error) {
	var gd []gDownload
	if err := q.GORM(ctx).Where("id = ?", dvID).Find(&gd).Error; err != nil {
		return nil, postgres.Err(err)
	}
	if err := postgres.One(len(gd)); err != nil {
		return nil, err
	}
	return gd[0].Model(), nil
}

func DeleteByCar[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (int64, error) {
	gdb := q.GORM(ctx).Where("car_id = ?", carID).Delete(&gDownload{})
	if err := gdb.Error; err != nil {
		return 0, postgres.Err(err)
	}
	return gdb.RowsAffected, nil
}
