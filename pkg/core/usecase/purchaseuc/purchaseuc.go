// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package purchaseuc contains the purchase UseCase which converts a
// payment into the right of downloading a car asset. It creates the
// payment intents, handles the payment processor webhook events by
// recording orders and issuing download verifications exactly once per
// payment, and reports the purchase status to customers.
package purchaseuc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/mail"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/payment"
	"github.com/momeni/carmarket/pkg/core/repo"
)

// UseCase represents a purchase use case. It holds a database
// connection pool, the repositories which are involved in fulfillment,
// the payment processor gateway, the mail sender, and the purchase use
// case specific settings.
type UseCase struct {
	pool           repo.Pool
	carsrp         repo.Cars
	usersrp        repo.Users
	ordersrp       repo.Orders
	downloadsrp    repo.Downloads
	fulfillmentsrp repo.Fulfillments
	gateway        payment.Gateway
	mailer         mail.Sender

	currency     string
	linkLifetime time.Duration
	publicURL    *url.URL
	now          func() time.Time
}

// New instantiates a purchase use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool,
	cars repo.Cars,
	users repo.Users,
	orders repo.Orders,
	downloads repo.Downloads,
	fulfillments repo.Fulfillments,
	g payment.Gateway,
	m mail.Sender,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:           p,
		carsrp:         cars,
		usersrp:        users,
		ordersrp:       orders,
		downloadsrp:    downloads,
		fulfillmentsrp: fulfillments,
		gateway:        g,
		mailer:         m,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.currency == "" {
		uc.currency = "usd"
	}
	if uc.linkLifetime == 0 {
		uc.linkLifetime = 24 * time.Hour
	}
	if uc.publicURL == nil {
		uc.publicURL = &url.URL{Scheme: "http", Host: "localhost:8080"}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Checkout is the result of a purchase initiation. The payment UI
// confirms the Intent using its client secret.
type Checkout struct {
	Car    *model.Car
	Intent *model.PaymentIntent
}

// CreatePaymentIntent creates a payment intent for buying the carID
// car at its current price. Missing or unavailable cars are reported
// as not found and no intent is created for them. A processor failure
// or an intent without client secret is an integration error which is
// returned without retrying.
func (uc *UseCase) CreatePaymentIntent(
	ctx context.Context, carID uuid.UUID,
) (*Checkout, error) {
	var car *model.Car
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var err error
		car, err = uc.carsrp.Conn(c).Get(ctx, carID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !car.IsAvailableForPurchase {
		return nil, cerr.NotFound(fmt.Errorf("car %s is not available", carID))
	}
	pi, err := uc.gateway.CreateIntent(ctx, &payment.IntentRequest{
		AmountInCents: car.PriceInCents,
		Currency:      uc.currency,
		CarID:         car.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}
	if pi.ClientSecret == "" {
		return nil, fmt.Errorf(
			"payment intent %q has no client secret", pi.ID,
		)
	}
	return &Checkout{Car: car, Intent: pi}, nil
}

// Status describes a payment intent for the purchase success page.
// Fulfillment is nil while the webhook is not processed yet.
type Status struct {
	Intent      *model.PaymentIntent
	Car         *model.Car
	Fulfillment *model.Fulfillment
}

// Succeeded reports whether the payment was completed.
func (s *Status) Succeeded() bool {
	return s.Intent.Status == model.PaymentIntentSucceeded
}

// PurchaseStatus retrieves the intentID payment intent and its car.
// If the payment was fulfilled already, its fulfillment record is
// reported too, so the customer may download the asset right away.
func (uc *UseCase) PurchaseStatus(
	ctx context.Context, intentID string,
) (*Status, error) {
	if strings.TrimSpace(intentID) == "" {
		return nil, cerr.BadRequest(errors.New("payment intent id is empty"))
	}
	pi, err := uc.gateway.Intent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("retrieving payment intent: %w", err)
	}
	if pi.CarID == uuid.Nil {
		return nil, cerr.NotFound(fmt.Errorf(
			"payment intent %q does not belong to a car", intentID,
		))
	}
	s := &Status{Intent: pi}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var err error
		s.Car, err = uc.carsrp.Conn(c).Get(ctx, pi.CarID)
		if err != nil {
			return err
		}
		s.Fulfillment, err = uc.fulfillmentsrp.Conn(c).Get(ctx, pi.ID)
		if cerr.IsNotFound(err) {
			s.Fulfillment, err = nil, nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OrderExists reports whether the user with email has already
// purchased the carID car.
func (uc *UseCase) OrderExists(
	ctx context.Context, email string, carID uuid.UUID,
) (exists bool, err error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, cerr.BadRequest(errors.New("email is empty"))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		exists, err = uc.ordersrp.Conn(c).ExistsForEmail(ctx, email, carID)
		return err
	})
	return exists, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *UseCase) link(path string) string {
	return uc.publicURL.JoinPath(path).String()
}
