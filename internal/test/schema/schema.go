// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema checks an initialized database in integration tests.
package schema

import (
	"context"
	"fmt"
	"testing"

	"github.com/momeni/carmarket/internal/test/schema/sch1"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
)

// Verifier marks t as failed when the database does not match what
// the db init commands should have created. Data checks only look for
// the expected rows, extra rows are allowed.
type Verifier interface {
	VerifySchema(ctx context.Context, t *testing.T)
	VerifyDevData(ctx context.Context, t *testing.T)
	VerifyProdData(ctx context.Context, t *testing.T)
}

// NewVerifier returns the verifier of the v schema version which
// queries through c.
func NewVerifier(c repo.Conn, v model.SemVer) (Verifier, error) {
	if v[0] != 1 || v[1] > sch1.Minor {
		return nil, fmt.Errorf("no schema verifier for v%s", v)
	}
	return sch1.New(c), nil
}
