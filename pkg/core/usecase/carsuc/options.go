// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the cars use case.
type Option func(uc *UseCase) error

// WithMaxUploadSize option configures a cars UseCase instance in order
// to reject uploaded files which are larger than size bytes. This
// option may be passed to the New() function.
func WithMaxUploadSize(size int64) Option {
	return func(uc *UseCase) error {
		if size <= 0 {
			return fmt.Errorf("size (%d) is not positive", size)
		}
		if uc.maxUploadSize != 0 {
			return errors.New("max upload size is already configured")
		}
		uc.maxUploadSize = size
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// setting the creation and modification times of cars.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock function is nil")
		}
		uc.now = now
		return nil
	}
}
