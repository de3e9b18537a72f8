// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc initializes the marketplace database: it creates
// the cmwebN schema and the normal role with the admin role, renews
// both role passwords, and then creates the tables as the normal role.
package migrationuc

import (
	"context"
	"fmt"

	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
)

// SchemaSettings is implemented by the configuration, so this package
// does not depend on a config file format.
type SchemaSettings interface {
	// ConnectionPool connects as the r role. Its password is taken
	// from the .pgpass file of the passwords directory, or from the
	// .pgpass.new file which is left by an interrupted renewal. In
	// the latter case the new file replaces the old one.
	ConnectionPool(ctx context.Context, r repo.Role) (repo.Pool, error)

	// ConnectionInfo is used in logs and error messages.
	ConnectionInfo() (dbName, host string, port int)

	NewSchemaRepo() repo.Schema

	// SchemaInitializer returns the tables creator of SchemaVersion
	// which works in tx.
	SchemaInitializer(tx repo.Tx) (repo.SchemaInitializer, error)

	// RenewPasswords writes fresh random passwords of roles to the
	// .pgpass.new file and calls change to apply them in an open
	// transaction. Once that transaction commits, the caller must run
	// finalizer to move .pgpass.new over .pgpass.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context, roles []repo.Role, passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)

	SchemaVersion() model.SemVer
}

// SchemaName returns cmwebN for the N major version.
func SchemaName(major uint) string {
	return fmt.Sprintf("cmweb%d", major)
}
