// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package payment defines the payment processor port. The use cases
// layer creates payment intents and authenticates webhook events
// through the Gateway interface, without knowing which processor is
// configured in the adapters layer.
package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/core/model"
)

// ErrInvalidSignature is wrapped by the Gateway.ParseEvent errors when
// an event could not be authenticated.
var ErrInvalidSignature = errors.New("invalid payment event signature")

// IntentRequest describes a payment intent to be created for buying
// the CarID car.
type IntentRequest struct {
	AmountInCents int64
	Currency      string
	CarID         uuid.UUID
}

// Gateway is a payment processor client. A single instance is built
// at start-up and shared by all requests.
type Gateway interface {
	// CreateIntent creates a payment intent and returns it with its
	// client secret.
	CreateIntent(
		ctx context.Context, req *IntentRequest,
	) (*model.PaymentIntent, error)

	// Intent retrieves the id payment intent. The ClientSecret of
	// the returned intent is left empty.
	Intent(ctx context.Context, id string) (*model.PaymentIntent, error)

	// ParseEvent verifies the signature of a webhook payload and
	// decodes it. Verification failures wrap ErrInvalidSignature.
	ParseEvent(payload []byte, signature string) (*model.PaymentEvent, error)
}
