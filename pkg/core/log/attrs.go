// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"fmt"
	"log/slog"
)

// Err logs a nil error as "no-error".
func Err(key string, err error) slog.Attr {
	if err == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, err.Error())
}

// Stringer is useful for uuid.UUID and model.SemVer values.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}
