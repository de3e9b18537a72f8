// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package optionsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/model"
)

type gOption struct {
	CarID    uuid.UUID `gorm:"primaryKey;type:uuid"`
	Category string    `gorm:"primaryKey"`
	Name     string    `gorm:"primaryKey"`
}

func (gopt *gOption) TableName() string {
	return "car_options"
}

func List[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (model.OptionTags, error) {
	var gopts []gOption
	err := q.GORM(ctx).Where("car_id = ?", carID).Order(
		"category",
	).Order("name").Find(&gopts).Error
	if err != nil {
		return nil, postgres.Err(err)
	}
	tags := make(model.OptionTags, len(model.OptionCategories))
	for _, c := range model.OptionCategories {
		tags[c] = []string{}
	}
	for _, gopt := range gopts {
		c, err := model.ParseOptionCategory(gopt.Category)
		if err != nil {
			continue // unknown categories are not reported
		}
		tags[c] = append(tags[c], gopt.Name)
	}
	return tags, nil
}

// Replace deletes the carID tags and inserts the normalized tags.
// Both statements run in tx, so readers observe the old or new set.
func Replace(ctx context.Context, tx *postgres.Tx, carID uuid.UUID, tags model.OptionTags) error {
	if err := DeleteAll(ctx, tx, carID); err != nil {
		return err
	}
	tags = tags.Normalize()
	gopts := make([]gOption, 0, tags.Len())
	for _, c := range model.OptionCategories {
		for _, name := range tags[c] {
			gopts = append(gopts, gOption{
				CarID:    carID,
				Category: string(c),
				Name:     name,
			})
		}
	}
	if len(gopts) == 0 {
		return nil
	}
	if err := tx.GORM(ctx).Create(&gopts).Error; err != nil {
		return postgres.Err(err)
	}
	return nil
}

func DeleteAll(ctx context.Context, tx *postgres.Tx, carID uuid.UUID) error {
	err := tx.GORM(ctx).Where("car_id = ?", carID).Delete(&gOption{}).Error
	return postgres.Err(err)
}
