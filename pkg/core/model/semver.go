// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer is the major.minor.patch version of a config file format or
// of a database schema. Missing trailing components are zero, so "1"
// and "1.0" both mean 1.0.0. Pre-release suffixes are rejected.
type SemVer [3]uint

// ParseSemVer parses s which must have one to three dot separated
// non-negative numbers.
func ParseSemVer(s string) (SemVer, error) {
	var sv SemVer
	parts := strings.Split(s, ".")
	if len(parts) > len(sv) {
		return sv, fmt.Errorf("version %q has too many components", s)
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return SemVer{}, fmt.Errorf(
				"version %q: component %q is not a number", s, p,
			)
		}
		sv[i] = uint(n)
	}
	return sv, nil
}

// UnmarshalText parses text with ParseSemVer. The sv is left unchanged
// on errors.
func (sv *SemVer) UnmarshalText(text []byte) error {
	v, err := ParseSemVer(string(text))
	if err != nil {
		return err
	}
	*sv = v
	return nil
}

func (sv SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}
