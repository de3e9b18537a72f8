// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config reads the cmweb yaml file. The versions header picks
// the format package (only cfg1 exists now) and must name the schema
// version this binary migrates to.
package config

import (
	"fmt"
	"os"

	"github.com/momeni/carmarket/pkg/adapter/config/cfg1"
	"github.com/momeni/carmarket/pkg/adapter/config/vers"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/cerr"
)

// Load reads path and passes its contents to Parse.
func Load(path string) (*cfg1.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse rejects documents of another config or schema version and
// returns the validated cfg1 settings otherwise.
func Parse(data []byte) (*cfg1.Config, error) {
	v, err := vers.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading versions: %w", err)
	}
	vc := v.Versions
	switch {
	case vc.Config != cfg1.Version:
		return nil, fmt.Errorf(
			"unexpected config version: %w",
			&cerr.MismatchingSemVerError{
				Expected: cfg1.Version, Found: vc.Config,
			},
		)
	case vc.Database != postgres.Version:
		return nil, fmt.Errorf(
			"unexpected database schema version: %w",
			&cerr.MismatchingSemVerError{
				Expected: postgres.Version, Found: vc.Database,
			},
		)
	}
	c, err := cfg1.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading cfg1.Config: %w", err)
	}
	return c, nil
}
