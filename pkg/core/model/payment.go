// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "github.com/google/uuid"

// PaymentIntentStatus is the state of a payment intent as reported by
// the payment processor.
type PaymentIntentStatus string

// PaymentIntentSucceeded is the terminal status of a paid intent.
const PaymentIntentSucceeded PaymentIntentStatus = "succeeded"

// PaymentIntent is the processor side record of an intended charge.
// The ClientSecret must be passed to the payment UI for confirmation.
type PaymentIntent struct {
	ID            string
	ClientSecret  string
	AmountInCents int64
	Currency      string
	Status        PaymentIntentStatus

	// CarID is read from the intent metadata and is uuid.Nil if the
	// intent was not created for a car purchase.
	CarID uuid.UUID
}

// PaymentEventType is the kind of an event which is delivered by the
// payment processor webhook.
type PaymentEventType string

// PaymentEventChargeSucceeded is the only fulfilling event kind.
const PaymentEventChargeSucceeded PaymentEventType = "charge.succeeded"

// PaymentEvent is an authenticated payment processor event. Charge is
// only decoded for the PaymentEventChargeSucceeded type.
type PaymentEvent struct {
	ID     string
	Type   PaymentEventType
	Charge *Charge
}

// Charge describes a successful charge. CarID holds the raw metadata
// value which must be parsed and verified by its consumer.
type Charge struct {
	ID              string
	PaymentIntentID string
	CarID           string
	Email           string
	AmountInCents   int64
	Currency        string
}

// PaymentRef returns the identity which distinguishes one purchase
// from another. Every charge of a payment intent shares the intent id
// while a charge without an intent is identified by itself.
func (c *Charge) PaymentRef() string {
	if c.PaymentIntentID != "" {
		return c.PaymentIntentID
	}
	return c.ID
}
