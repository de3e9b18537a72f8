// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package catalogrs realizes the storefront catalog resource, allowing
// customers to browse the cars which are available for purchase.
package catalogrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/usecase/carsuc"
)

type resource struct {
	cars *carsuc.UseCase
}

// Register instantiates a resource adapting the cars use case instance
// with the relevant REST APIs including:
//  1. GET request to /api/cmweb/v1/cars?sort=newest|popular|name&limit=N
//     in order to list the cars which are available for purchase,
//  2. GET request to /api/cmweb/v1/cars/:cid
//     in order to fetch one available car with its option tags.
func Register(r *gin.RouterGroup, cars *carsuc.UseCase) {
	rs := &resource{cars: cars}
	r.GET("cars", rs.ListCars)
	r.GET("cars/:cid", rs.GetCar)
}

type listCarsReq struct {
	Sort  string `form:"sort" binding:"omitempty,oneof=newest popular name"`
	Limit int    `form:"limit" binding:"omitempty,min=0,max=100"`
}

func (rs *resource) ListCars(c *gin.Context) {
	req := &listCarsReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return
	}
	cars, err := rs.cars.List(c, model.CarOrder(req.Sort), req.Limit)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	if cars == nil {
		cars = []model.Car{}
	}
	c.JSON(http.StatusOK, cars)
}

func (rs *resource) GetCar(c *gin.Context) {
	carID, ok := serdser.PathUUID(c, "cid")
	if !ok {
		return
	}
	car, err := rs.cars.Get(c, carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}
