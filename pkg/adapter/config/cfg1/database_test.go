// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1_test

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/momeni/carmarket/pkg/adapter/config/cfg1"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDatabase(t *testing.T) cfg1.Database {
	d := cfg1.Database{
		Host:       "db.local",
		Port:       5433,
		Name:       "cmweb1_0_0",
		PassDir:    t.TempDir(),
		RoleSuffix: "_t1",
	}
	require.NoError(t, d.ValidateAndNormalize())
	return d
}

func TestConnectionURL(t *testing.T) {
	d := newDatabase(t)
	path := filepath.Join(d.PassDir, ".pgpass")
	err := os.WriteFile(path, []byte(strings.Join([]string{
		"# comment",
		"",
		"db.local:5433:cmweb1_0_0:cmweb_t1:secret/pass",
		"db.local:5433:cmweb1_0_0:admin_t1:other",
	}, "\n")), 0o600)
	require.NoError(t, err)

	s, err := d.ConnectionURL(repo.NormalRole, path)
	require.NoError(t, err)
	u, err := url.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, "postgresql", u.Scheme)
	assert.Equal(t, "db.local:5433", u.Host)
	assert.Equal(t, "/cmweb1_0_0", u.Path)
	assert.Equal(t, "cmweb_t1", u.User.Username())
	pass, _ := u.User.Password()
	assert.Equal(t, "secret/pass", pass)

	_, err = d.ConnectionURL("missing", path)
	assert.ErrorContains(t, err, "no matching password line")
}

func TestRenewPasswords(t *testing.T) {
	d := newDatabase(t)
	ctx := context.Background()
	var seen []string
	finalize, err := d.RenewPasswords(
		ctx,
		func(_ context.Context, roles []repo.Role, ps []string) error {
			assert.Equal(
				t, []repo.Role{repo.AdminRole, repo.NormalRole}, roles,
				"role names are suffixed by the schema repo",
			)
			seen = ps
			return nil
		},
		repo.AdminRole, repo.NormalRole,
	)
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.NotEqual(t, seen[0], seen[1])

	_, err = os.Stat(filepath.Join(d.PassDir, ".pgpass"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	require.NoError(t, finalize())

	path := filepath.Join(d.PassDir, ".pgpass")
	s, err := d.ConnectionURL(repo.AdminRole, path)
	require.NoError(t, err)
	u, err := url.Parse(s)
	require.NoError(t, err)
	pass, _ := u.User.Password()
	assert.Equal(t, seen[0], pass)
}

func TestRenewPasswordsFailure(t *testing.T) {
	d := newDatabase(t)
	failure := errors.New("rejected")
	_, err := d.RenewPasswords(
		context.Background(),
		func(context.Context, []repo.Role, []string) error {
			return failure
		},
		repo.NormalRole,
	)
	assert.ErrorIs(t, err, failure)
	_, err = os.Stat(filepath.Join(d.PassDir, ".pgpass"))
	assert.True(
		t, errors.Is(err, os.ErrNotExist),
		"main pass-file must be kept intact",
	)
}

func TestLoadRejectsOtherConfigVersions(t *testing.T) {
	for _, v := range []string{"2.0.0", "1.1.0"} {
		t.Run(v, func(t *testing.T) {
			_, err := cfg1.Load([]byte(
				"versions:\n    database: 1.0.0\n    config: " + v + "\n",
			))
			require.Error(t, err)
			assert.ErrorContains(t, err, "expecting version v1.0")
		})
	}
}
