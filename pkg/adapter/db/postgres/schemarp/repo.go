// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp manages the carmarket schema and the database roles
// which own or use it.
package schemarp

import (
	"context"

	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/scram"
)

// Repo appends roleSuffix to every role name, so test databases on a
// shared server get their own roles. Passwords reach the server as
// SCRAM verifiers computed by hasher.
type Repo struct {
	roleSuffix repo.Role
	hasher     scram.Hasher
}

func New(roleSuffix repo.Role, hasher scram.Hasher) *Repo {
	return &Repo{
		roleSuffix: roleSuffix,
		hasher:     hasher,
	}
}

type connQueryer struct {
	*postgres.Conn
	roleSuffix repo.Role
}

// Conn panics unless c was created by the postgres package.
func (schema *Repo) Conn(c repo.Conn) repo.SchemaConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc, roleSuffix: schema.roleSuffix}
}

func (cq connQueryer) DropIfExists(ctx context.Context, schema string) error {
	return DropIfExists(ctx, cq.Conn, schema)
}

func (cq connQueryer) CreateSchema(ctx context.Context, schema string) error {
	return CreateSchema(ctx, cq.Conn, schema)
}

func (cq connQueryer) CreateRoleIfNotExists(ctx context.Context, role repo.Role) error {
	return CreateRoleIfNotExists(ctx, cq.Conn, cq.roleSuffix, role)
}

func (cq connQueryer) GrantPrivileges(ctx context.Context, schema string, role repo.Role) error {
	return GrantPrivileges(ctx, cq.Conn, cq.roleSuffix, schema, role)
}

func (cq connQueryer) SetSearchPath(ctx context.Context, schema string, role repo.Role) error {
	return SetSearchPath(ctx, cq.Conn, cq.roleSuffix, schema, role)
}

type txQueryer struct {
	*postgres.Tx
	roleSuffix repo.Role
	hasher     scram.Hasher
}

// Tx panics unless tx was created by the postgres package. Only the
// transactional queryer can change passwords, so new roles never
// become visible without one.
func (schema *Repo) Tx(tx repo.Tx) repo.SchemaTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{
		Tx:         tt,
		roleSuffix: schema.roleSuffix,
		hasher:     schema.hasher,
	}
}

func (tq txQueryer) DropIfExists(ctx context.Context, schema string) error {
	return DropIfExists(ctx, tq.Tx, schema)
}

func (tq txQueryer) CreateSchema(ctx context.Context, schema string) error {
	return CreateSchema(ctx, tq.Tx, schema)
}

func (tq txQueryer) CreateRoleIfNotExists(ctx context.Context, role repo.Role) error {
	return CreateRoleIfNotExists(ctx, tq.Tx, tq.roleSuffix, role)
}

func (tq txQueryer) GrantPrivileges(ctx context.Context, schema string, role repo.Role) error {
	return GrantPrivileges(ctx, tq.Tx, tq.roleSuffix, schema, role)
}

func (tq txQueryer) SetSearchPath(ctx context.Context, schema string, role repo.Role) error {
	return SetSearchPath(ctx, tq.Tx, tq.roleSuffix, schema, role)
}

// ChangePasswords sets passwords[i] for roles[i].
func (tq txQueryer) ChangePasswords(
	ctx context.Context, roles []repo.Role, passwords []string,
) error {
	return ChangePasswords(
		ctx, tq.Tx, tq.roleSuffix, tq.hasher, roles, passwords,
	)
}
