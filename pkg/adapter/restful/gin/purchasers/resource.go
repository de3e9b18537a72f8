// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package purchasers realizes the purchase resource, allowing the
// customers to start a payment for a car, to follow its status, and
// to check whether they have bought a car before.
package purchasers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/usecase/purchaseuc"
)

type resource struct {
	purchases *purchaseuc.UseCase
}

// Register instantiates a resource adapting the purchase use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/cmweb/v1/cars/:cid/payment-intents
//     in order to create a payment intent for buying a car,
//  2. GET request to /api/cmweb/v1/payment-intents/:piid
//     in order to query a payment and its download link, and
//  3. GET request to /api/cmweb/v1/orders/exists?email=&car_id=
//     in order to check if a customer has bought a car already.
func Register(r *gin.RouterGroup, purchases *purchaseuc.UseCase) {
	rs := &resource{purchases: purchases}
	r.POST("cars/:cid/payment-intents", rs.CreatePaymentIntent)
	r.GET("payment-intents/:piid", rs.PurchaseStatus)
	r.GET("orders/exists", rs.OrderExists)
}

type checkoutResp struct {
	ClientSecret    string     `json:"client_secret"`
	PaymentIntentID string     `json:"payment_intent_id"`
	Car             *model.Car `json:"car"`
}

func (rs *resource) CreatePaymentIntent(c *gin.Context) {
	carID, ok := serdser.PathUUID(c, "cid")
	if !ok {
		return
	}
	co, err := rs.purchases.CreatePaymentIntent(c, carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, &checkoutResp{
		ClientSecret:    co.Intent.ClientSecret,
		PaymentIntentID: co.Intent.ID,
		Car:             co.Car,
	})
}

type statusResp struct {
	PaymentIntentID        string     `json:"payment_intent_id"`
	Status                 string     `json:"status"`
	Succeeded              bool       `json:"succeeded"`
	AmountInCents          int64      `json:"amount_in_cents"`
	Car                    *model.Car `json:"car"`
	DownloadVerificationID *uuid.UUID `json:"download_verification_id,omitempty"`
	DownloadURL            string     `json:"download_url,omitempty"`
}

func (rs *resource) PurchaseStatus(c *gin.Context) {
	s, err := rs.purchases.PurchaseStatus(c, c.Param("piid"))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	resp := &statusResp{
		PaymentIntentID: s.Intent.ID,
		Status:          string(s.Intent.Status),
		Succeeded:       s.Succeeded(),
		AmountInCents:   s.Intent.AmountInCents,
		Car:             s.Car,
	}
	if f := s.Fulfillment; f != nil && f.DownloadVerificationID != uuid.Nil {
		dvID := f.DownloadVerificationID
		resp.DownloadVerificationID = &dvID
		resp.DownloadURL = rs.purchases.DownloadURL(dvID)
	}
	c.JSON(http.StatusOK, resp)
}

type orderExistsReq struct {
	Email string `form:"email" binding:"required,email"`
	CarID string `form:"car_id" binding:"required,uuid"`
}

func (rs *resource) OrderExists(c *gin.Context) {
	req := &orderExistsReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return
	}
	carID := uuid.MustParse(req.CarID)
	exists, err := rs.purchases.OrderExists(c, req.Email, carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
