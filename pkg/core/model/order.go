// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a customer. Users are created on their first successful
// purchase and identified by their email address.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Order records one purchase of a car by a user. Orders are never
// updated after their creation.
type Order struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	CarID            uuid.UUID `json:"car_id"`
	PricePaidInCents int64     `json:"price_paid_in_cents"`
	CreatedAt        time.Time `json:"created_at"`
}

// DownloadVerification authorizes downloading the asset of one car
// until ExpiresAt. Its ID is the opaque token which is sent to the
// customer. It may be redeemed many times before its expiry.
type DownloadVerification struct {
	ID        uuid.UUID `json:"id"`
	CarID     uuid.UUID `json:"car_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidAt reports whether dv may be redeemed at the t moment.
func (dv *DownloadVerification) ValidAt(t time.Time) bool {
	return dv.ExpiresAt.After(t)
}

// Fulfillment records that a payment was converted into an order and
// a download verification. PaymentRef identifies the payment (for
// example, a payment intent) and is unique, so a redelivered payment
// event finds its previous fulfillment instead of creating another.
type Fulfillment struct {
	PaymentRef             string    `json:"payment_ref"`
	EventID                string    `json:"event_id"`
	OrderID                uuid.UUID `json:"order_id"`
	DownloadVerificationID uuid.UUID `json:"download_verification_id"`
	CreatedAt              time.Time `json:"created_at"`
}
