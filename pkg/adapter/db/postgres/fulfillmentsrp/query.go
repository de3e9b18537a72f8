// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fulfillmentsrp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gFulfillment struct {
	PaymentRef             string `gorm:"primaryKey"`
	EventID                string
	OrderID                *uuid.UUID `gorm:"type:uuid"`
	DownloadVerificationID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt              time.Time
}

func (gf *gFulfillment) TableName() string {
	return "fulfillments"
}

func (gf *gFulfillment) Model() *model.Fulfillment {
	f := &model.Fulfillment{
		PaymentRef: gf.PaymentRef,
		EventID:    gf.EventID,
		CreatedAt:  gf.CreatedAt.UTC(),
	}
	if gf.OrderID != nil {
		f.OrderID = *gf.OrderID
	}
	if gf.DownloadVerificationID != nil {
		f.DownloadVerificationID = *gf.DownloadVerificationID
	}
	return f
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, paymentRef string) (*model.Fulfillment, error) {
	var gf []gFulfillment
	err := q.GORM(ctx).Where("payment_ref = ?", paymentRef).Find(&gf).Error
	if err != nil {
		return nil, postgres.Err(err)
	}
	if err := postgres.One(len(gf)); err != nil {
		return nil, err
	}
	return gf[0].Model(), nil
}

// Claim inserts f.PaymentRef unless it exists. A concurrent claim of
// the same payment blocks on the primary key index until the first
// transaction ends, and then does nothing if it was committed.
func Claim(ctx context.Context, tx *postgres.Tx, f *model.Fulfillment) (bool, error) {
	if f.PaymentRef == "" {
		return false, cerr.BadRequest(errors.New("payment reference is empty"))
	}
	gdb := tx.GORM(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_ref"}},
		DoNothing: true,
	}).Create(&gFulfillment{
		PaymentRef: f.PaymentRef,
		EventID:    f.EventID,
		CreatedAt:  f.CreatedAt,
	})
	if err := gdb.Error; err != nil {
		return false, postgres.Err(err)
	}
	return gdb.RowsAffected == 1, nil
}

func Complete(ctx context.Context, tx *postgres.Tx, f *model.Fulfillment) error {
	gdb := tx.GORM(ctx).Model(&gFulfillment{}).Where(
		"payment_ref = ?", f.PaymentRef,
	).Updates(map[string]any{
		"order_id":                 f.OrderID,
		"download_verification_id": f.DownloadVerificationID,
	})
	if err := gdb.Error; err != nil {
		return postgres.Err(err)
	}
	return postgres.One(int(gdb.RowsAffected))
}
