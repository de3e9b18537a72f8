// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vers reads the versions header of a config file. The header
// is decoded before the rest of the file, so a file which was written
// for another config format or schema version is rejected with a clear
// error instead of a confusing yaml decoding failure.
package vers

import (
	"fmt"

	"github.com/momeni/carmarket/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Config is inlined in the versioned config structs.
type Config struct {
	Versions Versions `yaml:"versions"`
}

// Versions of the config file format and of the database schema which
// the file expects.
type Versions struct {
	Database model.SemVer `yaml:"database"`
	Config   model.SemVer `yaml:"config"`
}

// Load decodes only the versions header of data.
func Load(data []byte) (*Config, error) {
	var vc Config
	if err := yaml.Unmarshal(data, &vc); err != nil {
		return nil, err
	}
	return &vc, nil
}

// Validate accepts a config version with the given major version and a
// minor version which is not newer than minor. Patch versions are
// ignored.
func (vc *Config) Validate(major, minor uint) error {
	v := vc.Versions.Config
	switch {
	case v[0] != major:
		return fmt.Errorf("incompatible major version %d of %v", v[0], v)
	case v[1] > minor:
		return fmt.Errorf("minor version of %v is newer than %d", v, minor)
	}
	return nil
}
