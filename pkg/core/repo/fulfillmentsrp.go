// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/carmarket/pkg/core/model"
)

// FulfillmentsConnQueryer lists the fulfillment queries which may run
// on a connection.
type FulfillmentsConnQueryer interface {
	FulfillmentsQueryer
}

// FulfillmentsTxQueryer lists the fulfillment queries which must run
// in a transaction, so claiming a payment and recording its order and
// download verification commit or roll back together.
type FulfillmentsTxQueryer interface {
	FulfillmentsQueryer

	// Claim inserts f unless another fulfillment with the same
	// PaymentRef exists. It returns true if f was inserted. A false
	// value means that payment was fulfilled already (or is being
	// fulfilled by a concurrent transaction which has committed).
	Claim(ctx context.Context, f *model.Fulfillment) (bool, error)

	// Complete records the order and download verification which were
	// created for f.PaymentRef payment.
	Complete(ctx context.Context, f *model.Fulfillment) error
}

// FulfillmentsQueryer lists the common fulfillment queries.
type FulfillmentsQueryer interface {
	// Get returns the fulfillment of paymentRef or a NotFound error.
	Get(ctx context.Context, paymentRef string) (*model.Fulfillment, error)
}

// Fulfillments interface presents expectations from the payment
// fulfillments (idempotency records) repository.
type Fulfillments interface {
	Conn(Conn) FulfillmentsConnQueryer
	Tx(Tx) FulfillmentsTxQueryer
}
