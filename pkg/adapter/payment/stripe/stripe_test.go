// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package stripe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/adapter/payment/stripe"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/payment"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "whsec_test"

var carID = uuid.MustParse("0b8a5cf2-2b4e-4d53-9a3f-3c1b6f0e7a01")

func newGateway(t *testing.T, backends *stripego.Backends) *stripe.Gateway {
	g, err := stripe.New("sk_test_123", secret, backends)
	require.NoError(t, err, "creating gateway")
	return g
}

func sign(payload []byte, secret string) string {
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return sp.Header
}

func chargeEvent(t *testing.T) []byte {
	b, err := json.Marshal(map[string]any{
		"id":          "evt_1",
		"object":      "event",
		"type":        "charge.succeeded",
		"api_version": "2020-08-27",
		"data": map[string]any{
			"object": map[string]any{
				"id":             "ch_1",
				"object":         "charge",
				"amount":         2899900,
				"currency":       "usd",
				"payment_intent": "pi_1",
				"metadata":       map[string]string{"carId": carID.String()},
				"billing_details": map[string]any{
					"email": "buyer@example.com",
				},
			},
		},
	})
	require.NoError(t, err, "marshaling event")
	return b
}

func TestParseChargeSucceeded(t *testing.T) {
	g := newGateway(t, nil)
	payload := chargeEvent(t)
	ev, err := g.ParseEvent(payload, sign(payload, secret))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, model.PaymentEventChargeSucceeded, ev.Type)
	require.NotNil(t, ev.Charge)
	assert.Equal(t, &model.Charge{
		ID:              "ch_1",
		PaymentIntentID: "pi_1",
		CarID:           carID.String(),
		Email:           "buyer@example.com",
		AmountInCents:   2899900,
		Currency:        "usd",
	}, ev.Charge)
}

func TestParseOtherEventType(t *testing.T) {
	g := newGateway(t, nil)
	payload := []byte(`{"id":"evt_2","object":"event",` +
		`"type":"customer.created","data":{"object":{}}}`)
	ev, err := g.ParseEvent(payload, sign(payload, secret))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentEventType("customer.created"), ev.Type)
	assert.Nil(t, ev.Charge)
}

func TestParseInvalidSignature(t *testing.T) {
	g := newGateway(t, nil)
	payload := chargeEvent(t)
	for name, sig := range map[string]string{
		"missing":    "",
		"malformed":  "garbage",
		"wrong-key":  sign(payload, "whsec_other"),
		"other-body": sign([]byte(`{"id":"evt_x"}`), secret),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := g.ParseEvent(payload, sig)
			assert.ErrorIs(t, err, payment.ErrInvalidSignature)
		})
	}
}

func newBackends(srv *httptest.Server) *stripego.Backends {
	return &stripego.Backends{
		API: stripego.GetBackendWithConfig(
			stripego.APIBackend,
			&stripego.BackendConfig{
				URL:               stripego.String(srv.URL),
				HTTPClient:        srv.Client(),
				MaxNetworkRetries: stripego.Int64(0),
			},
		),
	}
}

func TestCreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/payment_intents", r.URL.Path)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "2899900", r.PostForm.Get("amount"))
			assert.Equal(t, "usd", r.PostForm.Get("currency"))
			assert.Equal(t, carID.String(), r.PostForm.Get("metadata[carId]"))
			assert.Equal(t, "true", r.PostForm.Get(
				"automatic_payment_methods[enabled]",
			))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":            "pi_1",
				"object":        "payment_intent",
				"client_secret": "pi_1_secret_2",
				"amount":        2899900,
				"currency":      "usd",
				"status":        "requires_payment_method",
				"metadata":      map[string]string{"carId": carID.String()},
			})
		},
	))
	defer srv.Close()
	g := newGateway(t, newBackends(srv))
	pi, err := g.CreateIntent(context.Background(), &payment.IntentRequest{
		AmountInCents: 2899900,
		Currency:      "usd",
		CarID:         carID,
	})
	require.NoError(t, err)
	assert.Equal(t, &model.PaymentIntent{
		ID:            "pi_1",
		ClientSecret:  "pi_1_secret_2",
		AmountInCents: 2899900,
		Currency:      "usd",
		Status:        "requires_payment_method",
		CarID:         carID,
	}, pi)
}

func TestIntentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error",` +
				`"code":"resource_missing","message":"No such payment_intent"}}`))
		},
	))
	defer srv.Close()
	g := newGateway(t, newBackends(srv))
	_, err := g.Intent(context.Background(), "pi_missing")
	require.Error(t, err)
	assert.True(t, cerr.IsNotFound(err), "expected not found, got %v", err)
}
