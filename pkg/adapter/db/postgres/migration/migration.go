// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration picks the schema initializer of a configured
// database schema version. Only the 1.x series exists; minor versions
// may add tables or columns but never remove them, so a newer minor
// than the one this binary knows is refused.
package migration

import (
	"fmt"

	"github.com/momeni/carmarket/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
)

func checkSupported(v model.SemVer) error {
	if v[0] != stlmig1.Major {
		return fmt.Errorf("unsupported schema major version: %d", v[0])
	}
	if v[1] > stlmig1.Minor {
		return fmt.Errorf("unsupported schema minor version: %s", v)
	}
	return nil
}

// LatestVersion returns the newest known version in the series of v.
func LatestVersion(v model.SemVer) (model.SemVer, error) {
	if err := checkSupported(v); err != nil {
		return model.SemVer{}, err
	}
	return model.SemVer{stlmig1.Major, stlmig1.Minor, stlmig1.Patch}, nil
}

// NewInitializer returns an initializer which creates the latest
// tables of the v series in tx. The caller commits tx.
func NewInitializer(tx repo.Tx, v model.SemVer) (repo.SchemaInitializer, error) {
	if err := checkSupported(v); err != nil {
		return nil, err
	}
	return stlmig1.New(tx), nil
}
