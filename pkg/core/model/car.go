// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model contains the domain entities of the car marketplace.
// Entities are plain structs which are shared by the use cases and
// adapters layers. They carry no persistence or transport specific
// logic, although their json tags describe the REST API shape.
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CarSpec contains the descriptive and priced attributes of a car
// listing, as they are submitted by an administrator. It excludes the
// stored files locations and the availability flag which are managed
// by dedicated use cases. Emission and fuel consumption figures are
// kept as entered, with their units (e.g., "150g/km"), and the
// FirstRegistrationDate is either empty or formatted as YYYY-MM-DD.
type CarSpec struct {
	Name                     string `json:"name"`
	Brand                    string `json:"brand"`
	Model                    string `json:"model"`
	Year                     int    `json:"year"`
	Mileage                  int    `json:"mileage"`
	FuelType                 string `json:"fuel_type"`
	GearboxType              string `json:"gearbox_type,omitempty"`
	BodyType                 string `json:"body_type,omitempty"`
	Drivetrain               string `json:"drivetrain,omitempty"`
	EngineDisplacement       int    `json:"engine_displacement,omitempty"`
	HorsePower               int    `json:"horse_power,omitempty"`
	Color                    string `json:"color,omitempty"`
	DoorsAmount              int    `json:"doors_amount,omitempty"`
	SeatsAmount              int    `json:"seats_amount,omitempty"`
	VIN                      string `json:"vin,omitempty"`
	CountryOfOrigin          string `json:"country_of_origin,omitempty"`
	Version                  string `json:"version,omitempty"`
	Generation               string `json:"generation,omitempty"`
	ColorType                string `json:"color_type,omitempty"`
	CO2Emission              string `json:"co2_emission,omitempty"`
	CityFuelConsumption      string `json:"city_fuel_consumption,omitempty"`
	OutOfCityFuelConsumption string `json:"out_of_city_fuel_consumption,omitempty"`
	FirstRegistrationDate    string `json:"first_registration_date,omitempty"`
	DriverPlateNumber        string `json:"driver_plate_number,omitempty"`
	IsFirstOwner             bool   `json:"is_first_owner"`
	ServicedInASO            bool   `json:"serviced_in_aso"`
	HasRegistrationNumber    bool   `json:"has_registration_number"`
	RegisteredInPoland       bool   `json:"registered_in_poland"`
	IsNew                    bool   `json:"is_new"`
	CanNegotiate             bool   `json:"can_negotiate"`
	Description              string `json:"description"`
	PriceInCents             int64  `json:"price_in_cents"`
}

// Car is a purchasable listing. The FilePath locates the sold asset
// in the private storage and is never reported to customers, while
// the ImagePath is a public URL path of its picture.
type Car struct {
	ID uuid.UUID `json:"id"`
	CarSpec

	FilePath               string `json:"-"`
	ImagePath              string `json:"image_path"`
	IsAvailableForPurchase bool   `json:"is_available_for_purchase"`

	// Options is only filled when a detailed view is requested.
	Options OptionTags `json:"options,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrMissingFiles indicates that a car without stored asset or image
// files was asked to become available for purchase.
var ErrMissingFiles = errors.New(
	"car without file and image may not be available for purchase",
)

// CheckAvailability verifies that car may be offered for sale if its
// IsAvailableForPurchase flag is set.
func (car *Car) CheckAvailability() error {
	if !car.IsAvailableForPurchase {
		return nil
	}
	if car.FilePath == "" || car.ImagePath == "" {
		return ErrMissingFiles
	}
	return nil
}

// CarSummary is an administrative view of a car, reporting how many
// orders were recorded for it.
type CarSummary struct {
	Car
	OrdersCount int64 `json:"orders_count"`
}

// CarOrder specifies how a storefront listing should be sorted.
type CarOrder string

// Supported storefront orderings.
const (
	CarOrderNewest  CarOrder = "newest"  // by creation time, descending
	CarOrderPopular CarOrder = "popular" // by number of orders, descending
	CarOrderName    CarOrder = "name"    // alphabetically
)

// CarFilter selects a page of the cars catalog.
type CarFilter struct {
	AvailableOnly bool
	OrderBy       CarOrder
	Limit         int // zero means no limit
}
