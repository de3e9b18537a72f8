// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package purchaseuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/log"
	"github.com/momeni/carmarket/pkg/core/mail"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/payment"
	"github.com/momeni/carmarket/pkg/core/repo"
)

// Outcome summarizes how a webhook event was processed.
//
// Handled is false for events which are acknowledged and ignored.
// Duplicate is true when the event payment was fulfilled before, so
// nothing new was recorded and no email was sent.
type Outcome struct {
	Handled     bool
	Duplicate   bool
	Order       *model.Order
	Download    *model.DownloadVerification
	ReceiptSent bool
}

// HandleWebhook verifies the payload signature, parses the event, and
// if it reports a successful charge, records its order along with a
// new download verification in one transaction. The payment reference
// is claimed in the same transaction, so redelivered (or concurrently
// delivered) events of the same payment produce one order only.
//
// After the transaction commits, the receipt email is sent. Failing to
// send it is logged and does not fail the event processing because
// the order is already persisted.
func (uc *UseCase) HandleWebhook(
	ctx context.Context, payload []byte, signature string,
) (*Outcome, error) {
	ev, err := uc.gateway.ParseEvent(payload, signature)
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		return nil, cerr.Authentication(err)
	case err != nil:
		return nil, cerr.BadRequest(fmt.Errorf("parsing event: %w", err))
	}
	ctx = log.With(ctx, eventAttrs(ev)...)
	if ev.Type != model.PaymentEventChargeSucceeded {
		log.Info(ctx, "ignoring payment event")
		return &Outcome{}, nil
	}
	ch := ev.Charge
	if ch == nil {
		return nil, cerr.BadRequest(errors.New("event has no charge"))
	}
	carID, err := uuid.Parse(ch.CarID)
	if err != nil {
		return nil, cerr.BadRequest(fmt.Errorf(
			"charge %q has invalid car id metadata: %w", ch.ID, err,
		))
	}
	email := normalizeEmail(ch.Email)
	if email == "" {
		return nil, cerr.BadRequest(fmt.Errorf(
			"charge %q has no billing email", ch.ID,
		))
	}
	out := &Outcome{Handled: true}
	var car *model.Car
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			var err error
			car, err = uc.carsrp.Tx(tx).Get(ctx, carID)
			if err != nil {
				if cerr.IsNotFound(err) {
					return cerr.BadRequest(err)
				}
				return err
			}
			now := uc.now().UTC()
			f := &model.Fulfillment{
				PaymentRef: ch.PaymentRef(),
				EventID:    ev.ID,
				CreatedAt:  now,
			}
			fq := uc.fulfillmentsrp.Tx(tx)
			claimed, err := fq.Claim(ctx, f)
			if err != nil {
				return fmt.Errorf("claiming payment: %w", err)
			}
			if !claimed {
				out.Duplicate = true
				return nil
			}
			u, err := uc.usersrp.Tx(tx).Upsert(ctx, email, now)
			if err != nil {
				return fmt.Errorf("upserting user: %w", err)
			}
			out.Order = &model.Order{
				ID:               uuid.New(),
				UserID:           u.ID,
				CarID:            car.ID,
				PricePaidInCents: ch.AmountInCents,
				CreatedAt:        now,
			}
			if err := uc.ordersrp.Tx(tx).Create(ctx, out.Order); err != nil {
				return fmt.Errorf("creating order: %w", err)
			}
			out.Download = &model.DownloadVerification{
				ID:        uuid.New(),
				CarID:     car.ID,
				ExpiresAt: now.Add(uc.linkLifetime),
				CreatedAt: now,
			}
			err = uc.downloadsrp.Tx(tx).Create(ctx, out.Download)
			if err != nil {
				return fmt.Errorf("creating download verification: %w", err)
			}
			f.OrderID = out.Order.ID
			f.DownloadVerificationID = out.Download.ID
			return fq.Complete(ctx, f)
		})
	})
	if err != nil {
		return nil, err
	}
	if out.Duplicate {
		log.Info(ctx, "payment is already fulfilled")
		return out, nil
	}
	log.Info(ctx, "order is recorded", log.Stringer("order", out.Order.ID))
	err = uc.mailer.SendReceipt(ctx, &mail.Receipt{
		To:          email,
		Car:         car,
		Order:       out.Order,
		DownloadURL: uc.DownloadURL(out.Download.ID),
		ExpiresAt:   out.Download.ExpiresAt,
		ImageURL:    uc.link(car.ImagePath),
	})
	if err != nil {
		log.Warn(ctx, "failed to send the receipt email", log.Err("err", err))
		return out, nil
	}
	out.ReceiptSent = true
	return out, nil
}

// DownloadURL returns the absolute URL which redeems the dvID
// download verification.
func (uc *UseCase) DownloadURL(dvID uuid.UUID) string {
	return uc.link("/cars/download/" + dvID.String())
}

func eventAttrs(ev *model.PaymentEvent) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("event", ev.ID),
		slog.String("type", string(ev.Type)),
	}
	if ev.Charge != nil {
		attrs = append(attrs, slog.String("payment", ev.Charge.PaymentRef()))
	}
	return attrs
}
