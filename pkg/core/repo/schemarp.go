// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaInitializer creates the tables of one schema major version in
// the current schema of its transaction.
type SchemaInitializer interface {
	// InitDevSchema also inserts a few sample listings.
	InitDevSchema(ctx context.Context) error

	// InitProdSchema leaves the catalog empty.
	InitProdSchema(ctx context.Context) error
}

// Schema manages the cmwebN schemas and the database roles. Role names
// which are passed to its queryers may get a per-config suffix, so
// parallel tests can share one database cluster.
type Schema interface {
	Conn(Conn) SchemaConnQueryer
	Tx(Tx) SchemaTxQueryer
}

type SchemaConnQueryer interface {
	SchemaQueryer
}

// SchemaTxQueryer can also change the role passwords. That is only
// allowed in a transaction which is committed after the new passwords
// are written to disk.
type SchemaTxQueryer interface {
	SchemaQueryer

	// ChangePasswords sets passwords[i] for roles[i].
	ChangePasswords(
		ctx context.Context, roles []Role, passwords []string,
	) error
}

type SchemaQueryer interface {
	// DropIfExists drops schema and all of its tables.
	DropIfExists(ctx context.Context, schema string) error

	CreateSchema(ctx context.Context, schema string) error

	// CreateRoleIfNotExists creates a login role without password.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges lets role create and use tables in schema.
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath makes schema the default schema of role.
	SetSearchPath(ctx context.Context, schema string, role Role) error
}
