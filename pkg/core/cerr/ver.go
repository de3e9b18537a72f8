// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"fmt"

	"github.com/momeni/carmarket/pkg/core/model"
)

// MismatchingSemVerError reports that the Expected version of a config
// file or database schema is not the version which was Found.
type MismatchingSemVerError struct {
	Expected, Found model.SemVer
}

func (e *MismatchingSemVerError) Error() string {
	return fmt.Sprintf("expected v%s, but got v%s", e.Expected, e.Found)
}
