// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"fmt"
	"strings"

	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/storage"
)

// Form is a car listing as submitted by an administrator. The File and
// Image are required when a car is created and optional when it is
// updated (keeping the current files if they are nil).
type Form struct {
	Spec    model.CarSpec
	Options model.OptionTags
	File    *storage.Upload
	Image   *storage.Upload
}

// Validate checks f and returns a BadRequest error wrapping
// cerr.FieldErrors if some fields are not acceptable. Field names
// match with the REST form field names. The creating argument
// indicates that the file and image are mandatory. Uploads larger
// than maxSize bytes are rejected.
func (f *Form) Validate(creating bool, maxSize int64) error {
	fe := cerr.FieldErrors{}
	s := &f.Spec
	required := map[string]string{
		"name":        s.Name,
		"brand":       s.Brand,
		"model":       s.Model,
		"fuel_type":   s.FuelType,
		"description": s.Description,
	}
	for name, value := range required {
		fe.Assert(strings.TrimSpace(value) != "", name, "Required")
	}
	fe.Assert(s.Year >= 1, "year", "Must be at least 1")
	fe.Assert(s.Mileage >= 1, "mileage", "Must be at least 1")
	fe.Assert(s.PriceInCents >= 1, "price_in_cents", "Must be at least 1")
	for _, v := range []struct {
		name  string
		value int
	}{
		{"engine_displacement", s.EngineDisplacement},
		{"horse_power", s.HorsePower},
		{"doors_amount", s.DoorsAmount},
		{"seats_amount", s.SeatsAmount},
	} {
		fe.Assert(v.value >= 0, v.name, "Must not be negative")
	}
	checkUpload(fe, "file", f.File, creating, maxSize)
	if checkUpload(fe, "image", f.Image, creating, maxSize) && f.Image != nil {
		fe.Assert(
			strings.HasPrefix(f.Image.ContentType, "image/"),
			"image", "Must be an image",
		)
	}
	for oc := range f.Options {
		if _, err := model.ParseOptionCategory(string(oc)); err != nil {
			fe.Add("options", err.Error())
		}
	}
	return fe.Err()
}

func checkUpload(
	fe cerr.FieldErrors,
	name string,
	u *storage.Upload,
	required bool,
	maxSize int64,
) bool {
	if u == nil {
		return fe.Assert(!required, name, "Required")
	}
	return fe.Assert(u.Size > 0, name, "Required") &&
		fe.Assert(
			u.Size <= maxSize, name,
			fmt.Sprintf("Must not be larger than %d bytes", maxSize),
		)
}
