// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/carmarket/pkg/core/model"
)

// Version is the database schema version which the repositories of
// this package query.
var Version = model.SemVer{stlmig1.Major, stlmig1.Minor, stlmig1.Patch}
