// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"

	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionTagsNormalize(t *testing.T) {
	ot := model.OptionTags{
		model.OptionComfort: {" Heated Seats", "Cruise Control", "", "Heated Seats"},
		model.OptionSafety:  {"ABS"},
		"unknown":           {"Ignored"},
	}
	n := ot.Normalize()
	assert.Equal(t, []string{"Cruise Control", "Heated Seats"}, n[model.OptionComfort])
	assert.Equal(t, []string{"ABS"}, n[model.OptionSafety])
	assert.Empty(t, n[model.OptionMultimedia])
	assert.Empty(t, n[model.OptionOther])
	assert.NotContains(t, n, model.OptionCategory("unknown"))
	assert.Equal(t, 3, n.Len())
	assert.Len(t, ot[model.OptionComfort], 4, "input must stay intact")
}

func TestParseOptionCategory(t *testing.T) {
	for _, oc := range model.OptionCategories {
		parsed, err := model.ParseOptionCategory(string(oc))
		require.NoError(t, err)
		assert.Equal(t, oc, parsed)
	}
	_, err := model.ParseOptionCategory("audio")
	assert.Error(t, err)
}

func TestCarCheckAvailability(t *testing.T) {
	car := &model.Car{IsAvailableForPurchase: true}
	assert.ErrorIs(t, car.CheckAvailability(), model.ErrMissingFiles)
	car.FilePath = "f.pdf"
	assert.ErrorIs(t, car.CheckAvailability(), model.ErrMissingFiles)
	car.ImagePath = "/images/f.png"
	assert.NoError(t, car.CheckAvailability())
	car = &model.Car{}
	assert.NoError(t, car.CheckAvailability(), "unavailable cars need no files")
}

func TestChargePaymentRef(t *testing.T) {
	c := &model.Charge{ID: "ch_1", PaymentIntentID: "pi_1"}
	assert.Equal(t, "pi_1", c.PaymentRef())
	c.PaymentIntentID = ""
	assert.Equal(t, "ch_1", c.PaymentRef())
}

func TestCentsToAmount(t *testing.T) {
	assert.Equal(t, "1234.50", model.CentsToAmount(123450).StringFixed(2))
	assert.Equal(t, "0.00", model.CentsToAmount(0).StringFixed(2))
}
