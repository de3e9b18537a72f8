// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package stlmig1 provides the Initializer type for database schema
// major version 1. It can be used to initialize a database with major
// version 1 schema, having development or production suitable data.
package stlmig1

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/momeni/carmarket/pkg/core/repo"
)

// These constants indicate the major, minor, and patch components of
// the database schema initializer implementation. Each major version
// has a separate stlmigN package and the Minor is the latest supported
// minor version within the Major major version series.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

var (
	//go:embed schema.sql
	schemaSQL string

	//go:embed devdata.sql
	devDataSQL string
)

// Initializer struct creates the tables of major version 1 and fills
// them with the development or production suitable initial data.
//
// Each instance of Initializer wraps and uses a single transaction of
// the destination database, but the caller is responsible to commit
// that transaction in order to finalize the initialization results.
type Initializer struct {
	tx repo.Tx // destination database transaction
}

// New creates a new Initializer instance, wrapping the given `tx`
// database transaction. The initializer object expects the database
// schema to exist and be the default search_path of the current role,
// so it only creates relevant tables in that schema.
func New(tx repo.Tx) *Initializer {
	return &Initializer{
		tx: tx,
	}
}

// InitDevSchema creates major version 1 tables in cmweb1 schema and
// fills them with a few sample cars and their option tags.
func (im1 *Initializer) InitDevSchema(ctx context.Context) error {
	if err := im1.createTables(ctx); err != nil {
		return err
	}
	if _, err := im1.tx.Exec(ctx, devDataSQL); err != nil {
		return fmt.Errorf("inserting dev data: %w", err)
	}
	return nil
}

// InitProdSchema creates major version 1 tables in cmweb1 schema.
// No car is inserted, so the catalog starts empty.
func (im1 *Initializer) InitProdSchema(ctx context.Context) error {
	return im1.createTables(ctx)
}

func (im1 *Initializer) createTables(ctx context.Context) error {
	if _, err := im1.tx.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// MajorVersion returns the major semantic version of this Initializer
// instance. This value matches with the Major constant which is defined
// in this package.
func (im1 *Initializer) MajorVersion() uint {
	return Major
}
