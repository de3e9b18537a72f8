// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package resend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/adapter/mail/resend"
	"github.com/momeni/carmarket/pkg/core/mail"
	"github.com/momeni/carmarket/pkg/core/model"
	resendgo "github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

func newSender(t *testing.T, h http.HandlerFunc) *resend.Sender {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := resendgo.NewCustomClient(srv.Client(), "re_test")
	u, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	c.BaseURL = u
	s, err := resend.New(c, "shop@example.com")
	require.NoError(t, err)
	return s
}

func receipt() *mail.Receipt {
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	return &mail.Receipt{
		To: "buyer@example.com",
		Car: &model.Car{CarSpec: model.CarSpec{
			Name:        "Golf <GTI>",
			Description: "Hot hatch",
		}},
		Order: &model.Order{
			ID:               uuid.MustParse("6f1c7f3e-8d9f-4a0e-9c55-2d7e4b1a0c11"),
			PricePaidInCents: 2899950,
			CreatedAt:        created,
		},
		DownloadURL: "https://cars.example.com/cars/download/abc",
		ExpiresAt:   created.Add(24 * time.Hour),
		ImageURL:    "https://cars.example.com/images/golf.jpg",
	}
}

func TestSendReceipt(t *testing.T) {
	var got sentEmail
	s := newSender(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	})
	err := s.SendReceipt(context.Background(), receipt())
	require.NoError(t, err)
	assert.Equal(t, `"Support" <shop@example.com>`, got.From)
	assert.Equal(t, []string{"buyer@example.com"}, got.To)
	assert.Equal(t, resend.Subject, got.Subject)
	assert.Contains(t, got.HTML, "Golf &lt;GTI&gt;")
	assert.Contains(t, got.HTML, "6f1c7f3e-8d9f-4a0e-9c55-2d7e4b1a0c11")
	assert.Contains(t, got.HTML, "$28999.50")
	assert.Contains(t, got.HTML, "https://cars.example.com/cars/download/abc")
	assert.Contains(t, got.Text, "Date: 2024-05-06")
	assert.Contains(t, got.Text, "valid until 2024-05-07 07:08 UTC")
}

func TestSendReceiptFailure(t *testing.T) {
	s := newSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(
			`{"statusCode":422,"name":"validation_error","message":"bad"}`,
		))
	})
	err := s.SendReceipt(context.Background(), receipt())
	assert.Error(t, err)
}

func TestNewRejectsInvalidSender(t *testing.T) {
	_, err := resend.New(resendgo.NewClient("re_test"), "not an email")
	assert.Error(t, err)
}
