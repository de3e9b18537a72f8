// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"fmt"
	"regexp"

	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/scram"
)

// DDL statements do not accept bind parameters, so identifiers are
// validated and interpolated instead.
var identRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

func ident(name string) (string, error) {
	if !identRegex.MatchString(name) {
		return "", fmt.Errorf("invalid identifier: %q", name)
	}
	return `"` + name + `"`, nil
}

func exec[Q postgres.Queryer](ctx context.Context, q Q, sql string) error {
	if _, err := q.Exec(ctx, sql); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// DropIfExists drops the `schema` schema with cascade if it exists.
// That is, if `schema` does not exist, a nil error will be returned
// without any change. Otherwise, it will be dropped with all of its
// tables.
func DropIfExists[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	s, err := ident(schema)
	if err != nil {
		return err
	}
	return exec(ctx, q, "DROP SCHEMA IF EXISTS "+s+" CASCADE")
}

// CreateSchema tries to create the `schema` schema.
// There must be no other schema with the `schema` name, otherwise,
// this operation will fail.
func CreateSchema[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	s, err := ident(schema)
	if err != nil {
		return err
	}
	return exec(ctx, q, "CREATE SCHEMA "+s)
}

// CreateRoleIfNotExists creates the `role` role if it does not
// exist right now. Although the login option is enabled for the
// created role, but no specific password will be set for it.
// The ChangePasswords method may be used for setting a password if
// desired. Otherwise, that user may not login effectively (but
// using the trust or local identity methods).
//
// The `role` role name may be suffixed by `roleSuffix` if it is not
// empty. This is useful to have distinct role names if repo.Role
// predefined constants are not desirable.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	name := string(role + roleSuffix)
	r, err := ident(name)
	if err != nil {
		return err
	}
	rows, err := q.Query(
		ctx, "SELECT 1 FROM pg_roles WHERE rolname=$1", name,
	)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	exists := rows.Next()
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating pg_roles: %w", err)
	}
	if exists {
		return nil
	}
	return exec(ctx, q, "CREATE ROLE "+r+" WITH LOGIN")
}

// GrantPrivileges grants ALL privileges on the `schema` schema
// to the `role` role, so it may create or access tables in that schema
// and run relevant queries.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	s, err := ident(schema)
	if err != nil {
		return err
	}
	r, err := ident(string(role + roleSuffix))
	if err != nil {
		return err
	}
	return exec(ctx, q, "GRANT ALL PRIVILEGES ON SCHEMA "+s+" TO "+r)
}

// SetSearchPath alters the given database role and sets its default
// search_path to the given schema name alone.
func SetSearchPath[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	s, err := ident(schema)
	if err != nil {
		return err
	}
	r, err := ident(string(role + roleSuffix))
	if err != nil {
		return err
	}
	return exec(ctx, q, "ALTER ROLE "+r+" SET search_path TO "+s)
}

// ChangePasswords updates the passwords of the given roles in the
// current transaction. The roles and passwords slices must have the
// same number of entries, so they can be used in pair.
//
// The `roles` role names may be suffixed by `roleSuffix` if it is not
// empty. The `hasher` will be used for hashing of the `passwords`
// before sending them to the DBMS (so they may not leak in plaintext).
// This SCRAM hasher format must conform with the DBMS expected format.
func ChangePasswords(
	ctx context.Context,
	tx *postgres.Tx,
	roleSuffix repo.Role,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if len(roles) != len(passwords) {
		return fmt.Errorf(
			"got %d roles, but %d passwords", len(roles), len(passwords),
		)
	}
	for i, role := range roles {
		r, err := ident(string(role + roleSuffix))
		if err != nil {
			return err
		}
		h, err := hasher.Hash(passwords[i], "", 15000)
		if err != nil {
			return fmt.Errorf("hashing password of %s: %w", r, err)
		}
		// the hash is made of printable ASCII letters without quotes
		err = exec(ctx, tx, "ALTER ROLE "+r+" WITH PASSWORD '"+h+"'")
		if err != nil {
			return fmt.Errorf("changing password of %s: %w", r, err)
		}
	}
	return nil
}
