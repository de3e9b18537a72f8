// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package webhookrs realizes the payment processor webhook resource.
// The raw request body is passed to the purchase use case as is, so
// its signature may be verified.
package webhookrs

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/usecase/purchaseuc"
)

// MaxPayloadSize is the maximum accepted webhook body size in bytes.
const MaxPayloadSize = 64 << 10

// SignatureHeader carries the payload signature.
const SignatureHeader = "Stripe-Signature"

type resource struct {
	purchases *purchaseuc.UseCase
}

// Register instantiates a resource adapting the purchase use case
// with the POST /webhooks/stripe endpoint. The r router group must not
// be protected by any authentication middleware because requests are
// authenticated by their signatures.
func Register(r *gin.RouterGroup, purchases *purchaseuc.UseCase) {
	rs := &resource{purchases: purchases}
	r.POST("webhooks/stripe", rs.HandleStripeEvent)
}

func (rs *resource) HandleStripeEvent(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, MaxPayloadSize)
	payload, err := io.ReadAll(body)
	if err != nil {
		serdser.SerErr(c, cerr.BadRequest(
			fmt.Errorf("reading payload: %w", err),
		))
		return
	}
	out, err := rs.purchases.HandleWebhook(
		c, payload, c.GetHeader(SignatureHeader),
	)
	switch {
	case err != nil:
		serdser.SerErr(c, err)
	case !out.Handled:
		c.JSON(http.StatusOK, gin.H{"message": "Unhandled event type"})
	case out.Duplicate:
		c.JSON(http.StatusOK, gin.H{"message": "Already fulfilled"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message":                  "Order fulfilled",
			"order_id":                 out.Order.ID,
			"download_verification_id": out.Download.ID,
			"receipt_sent":             out.ReceiptSent,
		})
	}
}
