// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrs realizes the administrative cars resource, allowing
// the catalog manipulation REST APIs to be accepted and delegated to
// the cars use cases respectively.
package carsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/usecase/carsuc"
)

type resource struct {
	cars *carsuc.UseCase
}

// Register instantiates a resource adapting the cars use case instance
// with the relevant REST APIs. The r router group is expected to be
// protected by the administrator authentication middleware.
//  1. GET request to admin/cars lists all cars with their orders count,
//  2. POST request to admin/cars creates a car from a multipart form,
//  3. GET request to admin/cars/:cid fetches one car with its tags,
//  4. PUT request to admin/cars/:cid replaces a car and its tags,
//     where the file and image parts are optional,
//  5. PATCH request to admin/cars/:cid/availability publishes or
//     unpublishes a car, and
//  6. DELETE request to admin/cars/:cid deletes a car which was never
//     ordered.
func Register(r *gin.RouterGroup, cars *carsuc.UseCase) {
	rs := &resource{cars: cars}
	r.GET("admin/cars", rs.ListCars)
	r.POST("admin/cars", rs.CreateCar)
	r.GET("admin/cars/:cid", rs.GetCar)
	r.PUT("admin/cars/:cid", rs.UpdateCar)
	r.PATCH("admin/cars/:cid/availability", rs.SetAvailability)
	r.DELETE("admin/cars/:cid", rs.DeleteCar)
}

func (rs *resource) ListCars(c *gin.Context) {
	cars, err := rs.cars.AdminList(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	if cars == nil {
		cars = []model.CarSummary{}
	}
	c.JSON(http.StatusOK, cars)
}

func (rs *resource) GetCar(c *gin.Context) {
	carID, ok := serdser.PathUUID(c, "cid")
	if !ok {
		return
	}
	car, err := rs.cars.AdminGet(c, carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) CreateCar(c *gin.Context) {
	f, cleanup := rs.DserCarForm(c)
	if f == nil {
		return
	}
	defer cleanup()
	car, err := rs.cars.Create(c, f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (rs *resource) UpdateCar(c *gin.Context) {
	carID, ok := serdser.PathUUID(c, "cid")
	if !ok {
		return
	}
	f, cleanup := rs.DserCarForm(c)
	if f == nil {
		return
	}
	defer cleanup()
	car, err := rs.cars.Update(c, carID, f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) SetAvailability(c *gin.Context) {
	carID, ok := serdser.PathUUID(c, "cid")
	if !ok {
		return
	}
	available, ok := rs.DserAvailabilityReq(c)
	if !ok {
		return
	}
	car, err := rs.cars.SetAvailability(c, carID, available)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) DeleteCar(c *gin.Context) {
	carID, ok := serdser.PathUUID(c, "cid")
	if !ok {
		return
	}
	if err := rs.cars.Delete(c, carID); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
