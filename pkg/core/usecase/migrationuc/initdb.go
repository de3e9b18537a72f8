// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"fmt"

	"github.com/momeni/carmarket/pkg/core/repo"
)

// InitDBUseCase (re)creates the database schema. Both of its methods
// may be repeated after a failure: the schema is dropped first and the
// role passwords file is only replaced after a successful commit.
type InitDBUseCase struct {
	settings SchemaSettings
	schemas  repo.Schema
}

func NewInitDB(ss SchemaSettings) *InitDBUseCase {
	return &InitDBUseCase{
		settings: ss,
		schemas:  ss.NewSchemaRepo(),
	}
}

// InitProd creates empty tables.
func (uc *InitDBUseCase) InitProd(ctx context.Context) error {
	return uc.init(ctx, repo.SchemaInitializer.InitProdSchema)
}

// InitDev creates the tables and inserts sample listings.
func (uc *InitDBUseCase) InitDev(ctx context.Context) error {
	return uc.init(ctx, repo.SchemaInitializer.InitDevSchema)
}

func (uc *InitDBUseCase) init(
	ctx context.Context,
	fill func(repo.SchemaInitializer, context.Context) error,
) error {
	if err := uc.prepareSchema(ctx); err != nil {
		return fmt.Errorf("preparing schema: %w", err)
	}
	p, err := uc.settings.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("connecting as normal role: %w", err)
	}
	defer p.Close()
	return p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si, err := uc.settings.SchemaInitializer(tx)
			if err != nil {
				return err
			}
			if err := fill(si, ctx); err != nil {
				return fmt.Errorf("creating tables: %w", err)
			}
			return nil
		})
	})
}

// prepareSchema runs as the admin role and leaves an empty schema which
// is owned by the normal role.
func (uc *InitDBUseCase) prepareSchema(ctx context.Context) error {
	p, err := uc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("connecting as admin: %w", err)
	}
	defer p.Close()
	sn := SchemaName(uc.settings.SchemaVersion()[0])
	var finalize func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.schemas.Tx(tx)
			steps := []struct {
				name string
				run  func() error
			}{
				{"dropping " + sn, func() error { return q.DropIfExists(ctx, sn) }},
				{"creating " + sn, func() error { return q.CreateSchema(ctx, sn) }},
				{"creating normal role", func() error {
					return q.CreateRoleIfNotExists(ctx, repo.NormalRole)
				}},
				{"granting privileges", func() error {
					return q.GrantPrivileges(ctx, sn, repo.NormalRole)
				}},
				{"setting search_path", func() error {
					return q.SetSearchPath(ctx, sn, repo.NormalRole)
				}},
			}
			for _, s := range steps {
				if err := s.run(); err != nil {
					return fmt.Errorf("%s: %w", s.name, err)
				}
			}
			var err error
			finalize, err = uc.settings.RenewPasswords(
				ctx, q.ChangePasswords, repo.AdminRole, repo.NormalRole,
			)
			return err
		})
	})
	if err != nil {
		return err
	}
	if err := finalize(); err != nil {
		return fmt.Errorf("replacing passwords file: %w", err)
	}
	return nil
}
