// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package stripe implements the payment.Gateway interface using the
// Stripe API. Payment intents carry the purchased car id in their
// metadata, so the charge events which are received by the webhook
// can be related to their cars.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/payment"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// metadataCarID is the metadata key of payment intents and charges
// which holds the purchased car id.
const metadataCarID = "carId"

// Gateway is a Stripe API client. It is safe for concurrent use.
type Gateway struct {
	api           *client.API
	webhookSecret string
}

// New creates a Gateway which authenticates with secretKey and
// verifies the webhook payloads using the webhookSecret signing
// secret. A nil backends uses the default Stripe API endpoints.
func New(
	secretKey, webhookSecret string, backends *stripego.Backends,
) (*Gateway, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is empty")
	}
	if webhookSecret == "" {
		return nil, errors.New("stripe webhook secret is empty")
	}
	return &Gateway{
		api:           client.New(secretKey, backends),
		webhookSecret: webhookSecret,
	}, nil
}

// CreateIntent creates a payment intent for r with the automatic
// payment methods enabled.
func (g *Gateway) CreateIntent(
	ctx context.Context, r *payment.IntentRequest,
) (*model.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(r.AmountInCents),
		Currency: stripego.String(r.Currency),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataCarID, r.CarID.String())
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return intentModel(pi), nil
}

// Intent retrieves the id payment intent. Unknown intents are reported
// as a cerr.NotFound error.
func (g *Gateway) Intent(
	ctx context.Context, id string,
) (*model.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		var se *stripego.Error
		if errors.As(err, &se) && se.HTTPStatusCode == http.StatusNotFound {
			return nil, cerr.NotFound(fmt.Errorf("stripe: %w", err))
		}
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return intentModel(pi), nil
}

func intentModel(pi *stripego.PaymentIntent) *model.PaymentIntent {
	m := &model.PaymentIntent{
		ID:            pi.ID,
		ClientSecret:  pi.ClientSecret,
		AmountInCents: pi.Amount,
		Currency:      string(pi.Currency),
		Status:        model.PaymentIntentStatus(pi.Status),
	}
	if id, err := uuid.Parse(pi.Metadata[metadataCarID]); err == nil {
		m.CarID = id
	}
	return m
}

// ParseEvent verifies the Stripe-Signature header value against the
// payload and decodes the event. Signature problems (including a stale
// timestamp) are reported by wrapping payment.ErrInvalidSignature.
// The API version of events is not checked because only a few stable
// charge fields are read.
func (g *Gateway) ParseEvent(
	payload []byte, signature string,
) (*model.PaymentEvent, error) {
	ev, err := webhook.ConstructEventWithOptions(
		payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	switch {
	case errors.Is(err, webhook.ErrNotSigned),
		errors.Is(err, webhook.ErrInvalidHeader),
		errors.Is(err, webhook.ErrNoValidSignature),
		errors.Is(err, webhook.ErrTooOld):
		return nil, fmt.Errorf("%w: %w", payment.ErrInvalidSignature, err)
	case err != nil:
		return nil, fmt.Errorf("constructing event: %w", err)
	}
	pe := &model.PaymentEvent{
		ID:   ev.ID,
		Type: model.PaymentEventType(ev.Type),
	}
	if ev.Type != stripego.EventTypeChargeSucceeded || ev.Data == nil {
		return pe, nil
	}
	var ch stripego.Charge
	if err := json.Unmarshal(ev.Data.Raw, &ch); err != nil {
		return nil, fmt.Errorf("decoding charge: %w", err)
	}
	pe.Charge = &model.Charge{
		ID:            ch.ID,
		CarID:         ch.Metadata[metadataCarID],
		AmountInCents: ch.Amount,
		Currency:      string(ch.Currency),
	}
	if ch.PaymentIntent != nil {
		pe.Charge.PaymentIntentID = ch.PaymentIntent.ID
	}
	if ch.BillingDetails != nil {
		pe.Charge.Email = ch.BillingDetails.Email
	}
	return pe, nil
}
