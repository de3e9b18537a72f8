// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package purchaseuc_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/internal/test/sqlitedb"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/downloadsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/fulfillmentsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/ordersrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/mail"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/payment"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/usecase/appuc"
	"github.com/momeni/carmarket/pkg/core/usecase/purchaseuc"
	"github.com/stretchr/testify/suite"
)

// gateway accepts the "good" signature and decodes the payload as
// the id of a prepared event.
type gateway struct {
	mu      sync.Mutex
	events  map[string]*model.PaymentEvent
	intents map[string]*model.PaymentIntent
	created []*payment.IntentRequest
	fail    error
}

func (g *gateway) CreateIntent(
	ctx context.Context, req *payment.IntentRequest,
) (*model.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != nil {
		return nil, g.fail
	}
	g.created = append(g.created, req)
	return &model.PaymentIntent{
		ID:            "pi_new",
		ClientSecret:  "pi_new_secret",
		AmountInCents: req.AmountInCents,
		Currency:      req.Currency,
		CarID:         req.CarID,
	}, nil
}

func (g *gateway) Intent(
	ctx context.Context, id string,
) (*model.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	pi, ok := g.intents[id]
	if !ok {
		return nil, errors.New("no such intent")
	}
	return pi, nil
}

func (g *gateway) ParseEvent(
	payload []byte, signature string,
) (*model.PaymentEvent, error) {
	if signature != "good" {
		return nil, payment.ErrInvalidSignature
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	ev, ok := g.events[string(payload)]
	if !ok {
		return nil, errors.New("malformed payload")
	}
	return ev, nil
}

type mailer struct {
	mu       sync.Mutex
	receipts []*mail.Receipt
	fail     error
}

func (m *mailer) SendReceipt(ctx context.Context, r *mail.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.receipts = append(m.receipts, r)
	return nil
}

type PurchaseTestSuite struct {
	suite.Suite

	Ctx     context.Context
	Pool    repo.Pool
	Repos   *appuc.Repos
	Gateway *gateway
	Mailer  *mailer
	UC      *purchaseuc.UseCase
	Now     time.Time
}

func TestPurchaseTestSuite(t *testing.T) {
	suite.Run(t, &PurchaseTestSuite{Ctx: context.Background()})
}

func (pts *PurchaseTestSuite) SetupTest() {
	pts.Pool = sqlitedb.New(pts.Ctx, pts.T())
	pts.Repos = &appuc.Repos{
		Cars:         carsrp.New(),
		Users:        usersrp.New(),
		Orders:       ordersrp.New(),
		Downloads:    downloadsrp.New(),
		Fulfillments: fulfillmentsrp.New(),
	}
	pts.Gateway = &gateway{
		events:  make(map[string]*model.PaymentEvent),
		intents: make(map[string]*model.PaymentIntent),
	}
	pts.Mailer = &mailer{}
	pts.Now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r := pts.Repos
	uc, err := purchaseuc.New(
		pts.Pool, r.Cars, r.Users, r.Orders, r.Downloads, r.Fulfillments,
		pts.Gateway, pts.Mailer,
		purchaseuc.WithCurrency("EUR"),
		purchaseuc.WithLinkLifetime(2*time.Hour),
		purchaseuc.WithPublicURL("https://cars.example.com/shop"),
		purchaseuc.WithClock(func() time.Time { return pts.Now }),
	)
	pts.Require().NoError(err)
	pts.UC = uc
}

func (pts *PurchaseTestSuite) addCar(available bool) *model.Car {
	now := time.Now().UTC()
	car := &model.Car{
		ID: uuid.New(),
		CarSpec: model.CarSpec{
			Name: "Leaf", Brand: "Nissan", Model: "Leaf", Year: 2020,
			Mileage: 30000, FuelType: "electric", Description: "EV",
			PriceInCents: 1999900,
		},
		FilePath:               "leaf.pdf",
		ImagePath:              "/images/leaf.png",
		IsAvailableForPurchase: available,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	err := pts.Pool.Conn(pts.Ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return pts.Repos.Cars.Tx(tx).Create(ctx, car)
		})
	})
	pts.Require().NoError(err)
	return car
}

func (pts *PurchaseTestSuite) chargeEvent(id, intent, carID string) string {
	pts.Gateway.events[id] = &model.PaymentEvent{
		ID:   id,
		Type: model.PaymentEventChargeSucceeded,
		Charge: &model.Charge{
			ID:              "ch_" + id,
			PaymentIntentID: intent,
			CarID:           carID,
			Email:           " Someone@Example.COM ",
			AmountInCents:   1999900,
			Currency:        "eur",
		},
	}
	return id
}

func (pts *PurchaseTestSuite) totals() (orders, users int64) {
	err := pts.Pool.Conn(pts.Ctx, func(ctx context.Context, c repo.Conn) error {
		var err error
		orders, _, err = pts.Repos.Orders.Conn(c).Totals(ctx)
		if err != nil {
			return err
		}
		users, err = pts.Repos.Users.Conn(c).Count(ctx)
		return err
	})
	pts.Require().NoError(err)
	return orders, users
}

func (pts *PurchaseTestSuite) TestCreatePaymentIntent() {
	car := pts.addCar(true)
	co, err := pts.UC.CreatePaymentIntent(pts.Ctx, car.ID)
	pts.Require().NoError(err)
	pts.Equal("pi_new_secret", co.Intent.ClientSecret)
	pts.Equal(car.ID, co.Car.ID)
	pts.Require().Len(pts.Gateway.created, 1)
	pts.Equal(&payment.IntentRequest{
		AmountInCents: 1999900, Currency: "eur", CarID: car.ID,
	}, pts.Gateway.created[0])

	hidden := pts.addCar(false)
	_, err = pts.UC.CreatePaymentIntent(pts.Ctx, hidden.ID)
	pts.True(cerr.IsNotFound(err), "unavailable car: %v", err)
	_, err = pts.UC.CreatePaymentIntent(pts.Ctx, uuid.New())
	pts.True(cerr.IsNotFound(err), "missing car: %v", err)
	pts.Len(pts.Gateway.created, 1, "no intent for unavailable cars")

	pts.Gateway.fail = errors.New("stripe is down")
	_, err = pts.UC.CreatePaymentIntent(pts.Ctx, car.ID)
	pts.ErrorContains(err, "stripe is down")
}

func (pts *PurchaseTestSuite) TestHandleWebhookFulfillsOnce() {
	car := pts.addCar(true)
	ev := pts.chargeEvent("evt_1", "pi_1", car.ID.String())

	out, err := pts.UC.HandleWebhook(pts.Ctx, []byte(ev), "good")
	pts.Require().NoError(err)
	pts.True(out.Handled)
	pts.False(out.Duplicate)
	pts.True(out.ReceiptSent)
	pts.Equal(int64(1999900), out.Order.PricePaidInCents)
	pts.Equal(pts.Now.Add(2*time.Hour), out.Download.ExpiresAt)

	pts.Require().Len(pts.Mailer.receipts, 1)
	r := pts.Mailer.receipts[0]
	pts.Equal("someone@example.com", r.To)
	pts.Equal(
		"https://cars.example.com/shop/cars/download/"+out.Download.ID.String(),
		r.DownloadURL,
	)
	pts.Equal("https://cars.example.com/shop/images/leaf.png", r.ImageURL)

	again := pts.chargeEvent("evt_2", "pi_1", car.ID.String())
	out, err = pts.UC.HandleWebhook(pts.Ctx, []byte(again), "good")
	pts.Require().NoError(err)
	pts.True(out.Handled)
	pts.True(out.Duplicate, "same payment intent from another event")
	pts.Len(pts.Mailer.receipts, 1)

	orders, users := pts.totals()
	pts.Equal(int64(1), orders)
	pts.Equal(int64(1), users)

	f, err := pts.findFulfillment("pi_1")
	pts.Require().NoError(err)
	pts.Equal("evt_1", f.EventID)
}

func (pts *PurchaseTestSuite) findFulfillment(ref string) (f *model.Fulfillment, err error) {
	err = pts.Pool.Conn(pts.Ctx, func(ctx context.Context, c repo.Conn) error {
		f, err = pts.Repos.Fulfillments.Conn(c).Get(ctx, ref)
		return err
	})
	return f, err
}

func (pts *PurchaseTestSuite) TestConcurrentDeliveries() {
	car := pts.addCar(true)
	ev := pts.chargeEvent("evt_c", "pi_c", car.ID.String())
	const n = 10
	outs := make([]*purchaseuc.Outcome, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i], errs[i] = pts.UC.HandleWebhook(pts.Ctx, []byte(ev), "good")
		}(i)
	}
	wg.Wait()
	fresh := 0
	for i := 0; i < n; i++ {
		pts.Require().NoError(errs[i])
		if !outs[i].Duplicate {
			fresh++
		}
	}
	pts.Equal(1, fresh)
	orders, _ := pts.totals()
	pts.Equal(int64(1), orders)
	pts.Len(pts.Mailer.receipts, 1)
}

func (pts *PurchaseTestSuite) TestHandleWebhookRejections() {
	car := pts.addCar(true)
	ev := pts.chargeEvent("evt_r", "pi_r", car.ID.String())
	for _, tc := range []struct {
		name, payload, sig string
		status             int
	}{
		{"bad signature", ev, "forged", http.StatusUnauthorized},
		{"malformed payload", "garbage", "good", http.StatusBadRequest},
		{
			"invalid car id",
			pts.chargeEvent("evt_x", "pi_x", "not-a-uuid"),
			"good", http.StatusBadRequest,
		},
		{
			"unknown car",
			pts.chargeEvent("evt_y", "pi_y", uuid.NewString()),
			"good", http.StatusBadRequest,
		},
	} {
		pts.Run(tc.name, func() {
			_, err := pts.UC.HandleWebhook(pts.Ctx, []byte(tc.payload), tc.sig)
			var ce *cerr.Error
			pts.Require().ErrorAs(err, &ce)
			pts.Equal(tc.status, ce.HTTPStatusCode)
		})
	}
	noEmail := pts.chargeEvent("evt_z", "pi_z", car.ID.String())
	pts.Gateway.events[noEmail].Charge.Email = "  "
	_, err := pts.UC.HandleWebhook(pts.Ctx, []byte(noEmail), "good")
	pts.Error(err)

	orders, users := pts.totals()
	pts.Zero(orders)
	pts.Zero(users)
	_, err = pts.findFulfillment("pi_y")
	pts.True(cerr.IsNotFound(err), "failed events must not be claimed")
}

func (pts *PurchaseTestSuite) TestIgnoredEventType() {
	pts.Gateway.events["evt_refund"] = &model.PaymentEvent{
		ID: "evt_refund", Type: "charge.refunded",
	}
	out, err := pts.UC.HandleWebhook(pts.Ctx, []byte("evt_refund"), "good")
	pts.Require().NoError(err)
	pts.False(out.Handled)
	pts.Nil(out.Order)
}

func (pts *PurchaseTestSuite) TestReceiptFailureKeepsOrder() {
	car := pts.addCar(true)
	pts.Mailer.fail = errors.New("mailbox unavailable")
	ev := pts.chargeEvent("evt_m", "pi_m", car.ID.String())
	out, err := pts.UC.HandleWebhook(pts.Ctx, []byte(ev), "good")
	pts.Require().NoError(err)
	pts.True(out.Handled)
	pts.False(out.ReceiptSent)
	orders, _ := pts.totals()
	pts.Equal(int64(1), orders)
}

func (pts *PurchaseTestSuite) TestPurchaseStatusAndOrderExists() {
	car := pts.addCar(true)
	pts.Gateway.intents["pi_s"] = &model.PaymentIntent{
		ID: "pi_s", AmountInCents: 1999900, CarID: car.ID,
		Status: model.PaymentIntentSucceeded,
	}
	pts.Gateway.intents["pi_other"] = &model.PaymentIntent{ID: "pi_other"}

	s, err := pts.UC.PurchaseStatus(pts.Ctx, "pi_s")
	pts.Require().NoError(err)
	pts.True(s.Succeeded())
	pts.Nil(s.Fulfillment, "webhook is not processed yet")

	ev := pts.chargeEvent("evt_s", "pi_s", car.ID.String())
	out, err := pts.UC.HandleWebhook(pts.Ctx, []byte(ev), "good")
	pts.Require().NoError(err)
	s, err = pts.UC.PurchaseStatus(pts.Ctx, "pi_s")
	pts.Require().NoError(err)
	pts.Require().NotNil(s.Fulfillment)
	pts.Equal(out.Download.ID, s.Fulfillment.DownloadVerificationID)

	_, err = pts.UC.PurchaseStatus(pts.Ctx, "pi_other")
	pts.True(cerr.IsNotFound(err), "intent without car: %v", err)
	_, err = pts.UC.PurchaseStatus(pts.Ctx, " ")
	pts.Error(err)

	exists, err := pts.UC.OrderExists(pts.Ctx, "SOMEONE@example.com", car.ID)
	pts.Require().NoError(err)
	pts.True(exists)
	exists, err = pts.UC.OrderExists(pts.Ctx, "nobody@example.com", car.ID)
	pts.Require().NoError(err)
	pts.False(exists)
}

func TestOptions(t *testing.T) {
	for name, opts := range map[string][]purchaseuc.Option{
		"long currency":   {purchaseuc.WithCurrency("euro")},
		"twice currency":  {purchaseuc.WithCurrency("usd"), purchaseuc.WithCurrency("eur")},
		"zero lifetime":   {purchaseuc.WithLinkLifetime(0)},
		"relative url":    {purchaseuc.WithPublicURL("/shop")},
		"nil clock":       {purchaseuc.WithClock(nil)},
		"twice lifetime":  {purchaseuc.WithLinkLifetime(time.Hour), purchaseuc.WithLinkLifetime(time.Hour)},
		"twice publicurl": {purchaseuc.WithPublicURL("http://a"), purchaseuc.WithPublicURL("http://b")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := purchaseuc.New(
				nil, nil, nil, nil, nil, nil, nil, nil, opts...,
			)
			if err == nil {
				t.Fatal("expected an invalid option error")
			}
		})
	}
}
