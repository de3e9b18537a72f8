// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// OutOfRangeError reports a Value outside of the [Min, Max] range.
// Nil bounds are not enforced.
type OutOfRangeError[T cmp.Ordered] struct {
	Value, Min, Max *T
}

func (e *OutOfRangeError[T]) Error() string {
	switch {
	case e.Value == nil:
		return fmt.Sprintf("empty range [%v, %v]", deref(e.Min), deref(e.Max))
	case e.Min != nil && *e.Value < *e.Min:
		return fmt.Sprintf("%v is less than %v", *e.Value, *e.Min)
	default:
		return fmt.Sprintf("%v is greater than %v", *e.Value, deref(e.Max))
	}
}

func deref[T any](p *T) any {
	if p == nil {
		return "none"
	}
	return *p
}

// VerifyRange checks that a non-nil *value lies in [minb, maxb]. An
// out of range *value is clamped to the violated bound and reported.
// A nil *value only requires minb <= maxb.
func VerifyRange[T cmp.Ordered](value **T, minb, maxb *T) *OutOfRangeError[T] {
	if minb != nil && maxb != nil && *minb > *maxb {
		return &OutOfRangeError[T]{Min: minb, Max: maxb}
	}
	if *value == nil {
		return nil
	}
	v := **value
	switch {
	case minb != nil && v < *minb:
		**value = *minb
	case maxb != nil && v > *maxb:
		**value = *maxb
	default:
		return nil
	}
	return &OutOfRangeError[T]{Value: &v, Min: minb, Max: maxb}
}
