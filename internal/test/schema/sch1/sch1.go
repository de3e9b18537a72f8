// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sch1 provides database schema major version 1 verification
// logic. This implementation may be instantiated indirectly using
// the github.com/momeni/carmarket/internal/test/schema package.
package sch1

import (
	"context"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/optionsrp"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These constants present the relevant major, minor, and patch semantic
// versions of this schema verifier package. They are initialized based
// on the stlmig1 package because whenever a new minor version is
// released, the stlmig1 has to be updated based on it and this verifier
// needs to verify its updated changes too.
// Also, the stlmig1 constants are not used directly, so users of this
// package do not need to import it just for checking the provided
// semantic version components.
const (
	Major = stlmig1.Major
	Minor = stlmig1.Minor
	Patch = stlmig1.Patch
)

// Verifier implements the schema major version 1 verification logic. It
// implements github.com/momeni/carmarket/internal/test/schema.Verifier
// interface and wraps a database connection as noted in New function.
type Verifier struct {
	c repo.Conn // database connection which is used for testing
}

// New instantiates a Verifier struct, wrapping the `c` database
// connection. Since Verifier fields are not exported, the New function
// is required for its initialization.
func New(c repo.Conn) *Verifier {
	return &Verifier{c}
}

// tables lists the expected columns of each table, in their order.
var tables = map[string][]string{
	"cars": {
		"id", "name", "brand", "model", "year", "mileage", "fuel_type",
		"gearbox_type", "body_type", "drivetrain",
		"engine_displacement", "horse_power", "color", "doors_amount",
		"seats_amount", "vin", "country_of_origin", "version",
		"generation", "color_type", "co2_emission",
		"city_fuel_consumption", "out_of_city_fuel_consumption",
		"first_registration_date", "driver_plate_number",
		"is_first_owner", "serviced_in_aso", "has_registration_number",
		"registered_in_poland", "is_new", "can_negotiate", "description", "price_in_cents", "file_path",
		"image_path", "is_available_for_purchase", "created_at",
		"updated_at",
	},
	"car_options": {"car_id", "category", "name"},
	"users":       {"id", "email", "created_at"},
	"orders": {
		"id", "user_id", "car_id", "price_paid_in_cents", "created_at",
	},
	"download_verifications": {"id", "car_id", "expires_at", "created_at"},
	"fulfillments": {
		"payment_ref", "event_id", "order_id",
		"download_verification_id", "created_at",
	},
}

// VerifySchema queries the information_schema in order to ensure that
// all tables of Major major version exist in the current search_path
// schema and have the expected columns.
// This process failures are reported using the `t` testing argument.
func (v *Verifier) VerifySchema(ctx context.Context, t *testing.T) {
	for table, cols := range tables {
		rows, err := v.c.Query(ctx, `SELECT column_name
FROM information_schema.columns
WHERE table_schema=current_schema() AND table_name=$1
ORDER BY ordinal_position`, table)
		require.NoError(t, err, "querying columns of %q", table)
		var got []string
		for rows.Next() {
			var col string
			require.NoError(t, rows.Scan(&col), "scanning column name")
			got = append(got, col)
		}
		rows.Close()
		require.NoError(t, rows.Err(), "iterating columns of %q", table)
		assert.Equal(t, cols, got, "unexpected columns of %q", table)
	}
}

// devCars lists the names of available sample cars, from the newest.
var devCars = []string{"Model 3", "Golf GTI"}

// VerifyDevData checks for presence of the development suitable initial
// data and marks possible issues using the `t` testing argument.
// Presence of extra rows is acceptable.
func (v *Verifier) VerifyDevData(ctx context.Context, t *testing.T) {
	cars, err := carsrp.New().Conn(v.c).List(ctx, model.CarFilter{
		AvailableOnly: true,
		OrderBy:       model.CarOrderNewest,
	})
	require.NoError(t, err, "listing available cars")
	var names []string
	for _, car := range cars {
		names = append(names, car.Name)
	}
	for _, name := range devCars {
		assert.True(
			t, slices.Contains(names, name), "missing %q car", name,
		)
	}
	golf := uuid.MustParse("0b8a5cf2-2b4e-4d53-9a3f-3c1b6f0e7a01")
	tags, err := optionsrp.New().Conn(v.c).List(ctx, golf)
	require.NoError(t, err, "listing option tags")
	assert.Equal(t, []string{"heated seats"}, tags[model.OptionComfort])
	assert.Equal(t, []string{"lane assist"}, tags[model.OptionSafety])
}

// VerifyProdData checks that the catalog tables are queryable. The
// production data contains no listing, so the absence of extra rows
// is not checked.
func (v *Verifier) VerifyProdData(ctx context.Context, t *testing.T) {
	_, _, err := carsrp.New().Conn(v.c).CountByAvailability(ctx)
	assert.NoError(t, err, "counting cars")
}
