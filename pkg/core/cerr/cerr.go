// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func Authentication(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusUnauthorized}
}

func Authorization(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusForbidden}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

func Gone(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusGone}
}

// IsNotFound reports whether err wraps a NotFound error.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsGone reports whether err wraps a Gone error.
func IsGone(err error) bool {
	return hasStatus(err, http.StatusGone)
}

func hasStatus(err error, code int) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.HTTPStatusCode == code
}
