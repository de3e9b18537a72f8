// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

// Nil2Zero points a nil *t to a new zero T value. Sections use it for
// optional flags whose zero value is a meaningful default.
func Nil2Zero[T any](t **T) {
	if *t == nil {
		*t = new(T)
	}
}
