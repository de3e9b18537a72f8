// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"slices"
	"strings"
)

// OptionCategory is the key of a named tag category. Each car owns an
// independent set of tags per category.
type OptionCategory string

// Known option categories.
const (
	OptionComfort    OptionCategory = "comfort"
	OptionSafety     OptionCategory = "safety"
	OptionMultimedia OptionCategory = "multimedia"
	OptionOther      OptionCategory = "other"
)

// OptionCategories lists all known categories in their display order.
var OptionCategories = []OptionCategory{
	OptionComfort, OptionSafety, OptionMultimedia, OptionOther,
}

// ParseOptionCategory converts s to an OptionCategory, returning an
// error if s does not name a known category.
func ParseOptionCategory(s string) (OptionCategory, error) {
	oc := OptionCategory(s)
	if !slices.Contains(OptionCategories, oc) {
		return "", fmt.Errorf("unknown option category: %q", s)
	}
	return oc, nil
}

// OptionTags maps each category to its tag names.
type OptionTags map[OptionCategory][]string

// Normalize returns a copy of ot where names are trimmed, empty names
// and duplicates are dropped and each category slice is sorted.
// Unknown categories are dropped too. The returned map has an entry
// for every known category, possibly with an empty slice.
func (ot OptionTags) Normalize() OptionTags {
	n := make(OptionTags, len(OptionCategories))
	for _, oc := range OptionCategories {
		names := make([]string, 0, len(ot[oc]))
		for _, name := range ot[oc] {
			name = strings.TrimSpace(name)
			if name != "" {
				names = append(names, name)
			}
		}
		slices.Sort(names)
		n[oc] = slices.Compact(names)
	}
	return n
}

// Len returns the total number of tags in all categories.
func (ot OptionTags) Len() int {
	l := 0
	for _, names := range ot {
		l += len(names)
	}
	return l
}
