// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/momeni/carmarket/internal/test/dbcontainer"
	"github.com/momeni/carmarket/internal/test/schema"
	"github.com/momeni/carmarket/pkg/adapter/config/cfg1"
	"github.com/momeni/carmarket/pkg/adapter/config/vers"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/carmarket/pkg/adapter/hash/scram"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/usecase/migrationuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MigrationUseCasesTestSuite struct {
	Ctx  context.Context
	Pool *postgres.Pool
	Host string
	Port int

	dbDir  string
	hasher *scram.Mechanism
}

func TestMigrationUseCasesTestSuite(t *testing.T) {
	ctx := context.Background()
	pg := dbcontainer.Start(ctx, t, 60*time.Second)
	migucts := &MigrationUseCasesTestSuite{
		Ctx:  ctx,
		Pool: pg.Pool,
		Host: pg.Host,
		Port: pg.Port,

		dbDir:  t.TempDir(),
		hasher: scram.SHA256(),
	}
	t.Run("initialization", migucts.TestInitDB)
}

func (migucts *MigrationUseCasesTestSuite) TestInitDB(t *testing.T) {
	dbVer := model.SemVer{stlmig1.Major, stlmig1.Minor, stlmig1.Patch}
	for _, mode := range []string{"dev", "prod"} {
		a := assert.New(t)
		d, name, rs := migucts.createEmptyDB(a, cfg1.Version, dbVer, mode)
		c := &cfg1.Config{
			Database: cfg1.Database{
				Host:       migucts.Host,
				Port:       migucts.Port,
				Name:       name,
				PassDir:    d,
				RoleSuffix: rs,
			},
			Vers: vers.Config{
				Versions: vers.Versions{
					Database: dbVer,
					Config:   cfg1.Version,
				},
			},
		}
		a.NoError(c.ValidateAndNormalize(), "validating *cfg1.Config")
		dev := mode == "dev"
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			r := require.New(t)
			migucts.initDBAndVerifySchema(t, r, c, dev, dbVer)
			// init commands must be repeatable, e.g., after a failure
			migucts.initDBAndVerifySchema(t, r, c, dev, dbVer)
		})
	}
}

func (migucts *MigrationUseCasesTestSuite) initDBAndVerifySchema(
	t *testing.T,
	r *require.Assertions,
	s migrationuc.SchemaSettings,
	dev bool,
	dbVer model.SemVer,
) {
	iduc := migrationuc.NewInitDB(s)
	if dev {
		err := iduc.InitDev(migucts.Ctx)
		r.NoError(err, "initializing database with dev suitable data")
	} else {
		err := iduc.InitProd(migucts.Ctx)
		r.NoError(err, "initializing database with prod suitable data")
	}
	p, err := s.ConnectionPool(migucts.Ctx, repo.NormalRole)
	r.NoError(err, "creating connection pool")
	defer p.Close()
	err = p.Conn(migucts.Ctx, func(ctx context.Context, c repo.Conn) error {
		v, err := schema.NewVerifier(c, dbVer)
		if err != nil {
			return fmt.Errorf("NewVerifier(%v): %w", dbVer, err)
		}
		v.VerifySchema(ctx, t)
		if dev {
			v.VerifyDevData(ctx, t)
		} else {
			v.VerifyProdData(ctx, t)
		}
		return nil
	})
	r.NoError(err, "verifying database schema")
}

func (migucts *MigrationUseCasesTestSuite) createEmptyDB(
	a *assert.Assertions,
	cfgVer, dbVer model.SemVer, suffix string,
) (dbDir, dbName string, roleSuffix repo.Role) {
	name := fmt.Sprintf(
		"cfg%d_%d_%d_sch%d_%d_%d_%s",
		cfgVer[0], cfgVer[1], cfgVer[2],
		dbVer[0], dbVer[1], dbVer[2],
		suffix,
	)
	roleSuffix = repo.Role("_" + name)
	u := repo.AdminRole + roleSuffix
	p := migucts.randPass(a)
	err := migucts.Pool.Conn(
		migucts.Ctx, func(ctx context.Context, c repo.Conn) error {
			// The database and role creation DDL statements do not
			// support parameterized queries, nevertheless, the `name`
			// and `u` variables are trusted.
			if _, err := c.Exec(
				ctx, "CREATE DATABASE "+name,
			); err != nil {
				return fmt.Errorf("creating %q database: %w", name, err)
			}
			// The `p` password is hashed before being sent to DBMS, so
			// it may not leak even if it is recorded in some log file.
			hp, err := migucts.hasher.Hash(p, "", 15000)
			if err != nil {
				return fmt.Errorf(
					"computing scram hash of password: %w", err,
				)
			}
			// SUPERUSER is required for CREATE EXTENSION
			if _, err := c.Exec(
				ctx,
				fmt.Sprintf(
					`CREATE ROLE %s
WITH SUPERUSER LOGIN PASSWORD '%s';
GRANT ALL PRIVILEGES ON DATABASE %s TO %[1]s`,
					u, hp, name,
				),
			); err != nil {
				return fmt.Errorf("creating %q role: %w", u, err)
			}
			return nil
		},
	)
	if !a.NoError(err, "main connection error") {
		a.FailNow("failed to get a connection with superuser role")
	}
	d := filepath.Join(migucts.dbDir, name)
	err = os.Mkdir(d, 0o700)
	if !a.NoError(err, "creating %q dir", d) {
		a.FailNow("cannot create top database dir")
	}
	line := fmt.Sprintf(
		"%s:%d:%s:%s:%s\n", migucts.Host, migucts.Port, name, u, p,
	)
	pgpass := filepath.Join(d, ".pgpass")
	err = os.WriteFile(pgpass, []byte(line), 0o600)
	if !a.NoError(err, "writing %q file", pgpass) {
		a.FailNow("cannot write .pgpass file")
	}
	return d, name, roleSuffix
}

func (migucts *MigrationUseCasesTestSuite) randPass(
	a *assert.Assertions,
) string {
	b := make([]byte, 8)
	_, err := rand.Read(b)
	if !a.NoError(err, "generating a random password") {
		a.FailNow("cannot read random bytes")
	}
	return fmt.Sprintf("%x", b)
}
