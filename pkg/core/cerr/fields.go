// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors maps a request field name to its validation messages.
// It is reported to clients as is, so every field may be marked
// individually in a form.
type FieldErrors map[string][]string

// Add appends msgs to the messages of the name field.
func (fe FieldErrors) Add(name string, msgs ...string) {
	fe[name] = append(fe[name], msgs...)
}

// Assert adds msgs for the name field if ok is false. The ok value is
// returned, so checks of one field may be chained.
func (fe FieldErrors) Assert(ok bool, name string, msgs ...string) bool {
	if !ok {
		fe.Add(name, msgs...)
	}
	return ok
}

// Err returns nil if no message was added, otherwise, a BadRequest
// error wrapping fe.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return BadRequest(fe)
}

func (fe FieldErrors) Error() string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf(
			"%s: %s", name, strings.Join(fe[name], "; "),
		))
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}
