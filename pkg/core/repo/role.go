// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role names a database role. Passwords of the roles are kept in the
// .pgpass file of the configured passwords directory.
type Role string

const (
	// AdminRole is a pre-existing superuser. It is only used by the
	// db init commands in order to create the NormalRole, the schema,
	// and to renew the role passwords.
	AdminRole Role = "admin"

	// NormalRole owns the cmweb1 schema tables and serves the web
	// requests. It has no privilege outside that schema.
	NormalRole Role = "cmweb"
)
