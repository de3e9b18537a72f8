// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrs

import (
	"fmt"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/storage"
	"github.com/momeni/carmarket/pkg/core/usecase/carsuc"
)

// rawCarForm is the multipart form of a car listing. Only the syntax
// and lengths are checked while binding. The carsuc.Form performs the
// semantic validation of all fields before any file is written.
type rawCarForm struct {
	Name                     string `form:"name" binding:"max=200"`
	Brand                    string `form:"brand" binding:"max=100"`
	Model                    string `form:"model" binding:"max=100"`
	Year                     int    `form:"year"`
	Mileage                  int    `form:"mileage"`
	FuelType                 string `form:"fuel_type" binding:"max=50"`
	GearboxType              string `form:"gearbox_type" binding:"max=50"`
	BodyType                 string `form:"body_type" binding:"max=50"`
	Drivetrain               string `form:"drivetrain" binding:"max=50"`
	EngineDisplacement       int    `form:"engine_displacement"`
	HorsePower               int    `form:"horse_power"`
	Color                    string `form:"color" binding:"max=50"`
	DoorsAmount              int    `form:"doors_amount"`
	SeatsAmount              int    `form:"seats_amount"`
	VIN                      string `form:"vin" binding:"omitempty,alphanum,max=17"`
	CountryOfOrigin          string `form:"country_of_origin" binding:"max=100"`
	Version                  string `form:"version" binding:"max=100"`
	Generation               string `form:"generation" binding:"max=100"`
	ColorType                string `form:"color_type" binding:"max=50"`
	CO2Emission              string `form:"co2_emission" binding:"max=50"`
	CityFuelConsumption      string `form:"city_fuel_consumption" binding:"max=50"`
	OutOfCityFuelConsumption string `form:"out_of_city_fuel_consumption" binding:"max=50"`
	FirstRegistrationDate    string `form:"first_registration_date" binding:"omitempty,datetime=2006-01-02"`
	DriverPlateNumber        string `form:"driver_plate_number" binding:"max=20"`
	IsFirstOwner             bool   `form:"is_first_owner"`
	ServicedInASO            bool   `form:"serviced_in_aso"`
	HasRegistrationNumber    bool   `form:"has_registration_number"`
	RegisteredInPoland       bool   `form:"registered_in_poland"`
	IsNew                    bool   `form:"is_new"`
	CanNegotiate             bool   `form:"can_negotiate"`
	Description              string `form:"description" binding:"max=10000"`
	PriceInCents             int64  `form:"price_in_cents"`

	Comfort    []string `form:"comfort" binding:"dive,max=100"`
	Safety     []string `form:"safety" binding:"dive,max=100"`
	Multimedia []string `form:"multimedia" binding:"dive,max=100"`
	Other      []string `form:"other" binding:"dive,max=100"`

	File  *multipart.FileHeader `form:"file"`
	Image *multipart.FileHeader `form:"image"`
}

// DserCarForm binds the multipart request body as a carsuc.Form.
// The returned cleanup function closes the opened uploads and must be
// called even if the use case fails. In case of errors, a bad request
// response is written and nil is returned.
func (rs *resource) DserCarForm(c *gin.Context) (*carsuc.Form, func()) {
	req := &rawCarForm{}
	if !serdser.Bind(c, req, binding.FormMultipart) {
		return nil, nil
	}
	f := &carsuc.Form{
		Spec: model.CarSpec{
			Name:                     req.Name,
			Brand:                    req.Brand,
			Model:                    req.Model,
			Year:                     req.Year,
			Mileage:                  req.Mileage,
			FuelType:                 req.FuelType,
			GearboxType:              req.GearboxType,
			BodyType:                 req.BodyType,
			Drivetrain:               req.Drivetrain,
			EngineDisplacement:       req.EngineDisplacement,
			HorsePower:               req.HorsePower,
			Color:                    req.Color,
			DoorsAmount:              req.DoorsAmount,
			SeatsAmount:              req.SeatsAmount,
			VIN:                      req.VIN,
			CountryOfOrigin:          req.CountryOfOrigin,
			Version:                  req.Version,
			Generation:               req.Generation,
			ColorType:                req.ColorType,
			CO2Emission:              req.CO2Emission,
			CityFuelConsumption:      req.CityFuelConsumption,
			OutOfCityFuelConsumption: req.OutOfCityFuelConsumption,
			FirstRegistrationDate:    req.FirstRegistrationDate,
			DriverPlateNumber:        req.DriverPlateNumber,
			IsFirstOwner:             req.IsFirstOwner,
			ServicedInASO:            req.ServicedInASO,
			HasRegistrationNumber:    req.HasRegistrationNumber,
			RegisteredInPoland:       req.RegisteredInPoland,
			IsNew:                    req.IsNew,
			CanNegotiate:             req.CanNegotiate,
			Description:              req.Description,
			PriceInCents:             req.PriceInCents,
		},
		Options: model.OptionTags{
			model.OptionComfort:    req.Comfort,
			model.OptionSafety:     req.Safety,
			model.OptionMultimedia: req.Multimedia,
			model.OptionOther:      req.Other,
		},
	}
	var files []multipart.File
	cleanup := func() {
		for _, mf := range files {
			mf.Close()
		}
	}
	var err error
	for _, u := range []struct {
		dst **storage.Upload
		fh  *multipart.FileHeader
	}{
		{&f.File, req.File},
		{&f.Image, req.Image},
	} {
		if u.fh == nil {
			continue
		}
		var mf multipart.File
		mf, err = u.fh.Open()
		if err != nil {
			break
		}
		files = append(files, mf)
		*u.dst = &storage.Upload{
			Name:        u.fh.Filename,
			ContentType: u.fh.Header.Get("Content-Type"),
			Size:        u.fh.Size,
			Content:     mf,
		}
	}
	if err != nil {
		cleanup()
		serdser.SerErr(c, fmt.Errorf("opening uploaded file: %w", err))
		return nil, nil
	}
	return f, cleanup
}

type availabilityReq struct {
	Available *bool `form:"available" json:"available" binding:"required"`
}

// DserAvailabilityReq binds the availability flag from a form, query,
// or JSON body. The second return value is false if a bad request
// response is written.
func (rs *resource) DserAvailabilityReq(c *gin.Context) (bool, bool) {
	req := &availabilityReq{}
	b := binding.Default(c.Request.Method, c.ContentType())
	if c.Request.ContentLength == 0 {
		b = binding.Query
	}
	if !serdser.Bind(c, req, b) {
		return false, false
	}
	return *req.Available, true
}
