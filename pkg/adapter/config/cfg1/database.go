// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/carmarket/pkg/adapter/hash/scram"
	"github.com/momeni/carmarket/pkg/core/log"
	"github.com/momeni/carmarket/pkg/core/repo"
	scrami "github.com/momeni/carmarket/pkg/core/scram"
)

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like cmweb1_0_0
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. In the parallel test cases, it is required to create
	// multiple non-colliding roles in the same database cluster and
	// so having a unique (per test) role suffix helps with parallelism.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`

	// AuthMethod specifies the database authentication method name.
	// Currently, only scram-sha-1 and scram-sha-256 methods are
	// supported. The scram-sha-256 is the default value.
	AuthMethod string `yaml:"auth-method,omitempty"`

	// hasher is instantiated based on the AuthMethod and is used by
	// the NewSchemaRepo method, so Schema repo instances may hash
	// passwords properly (as expected by the DBMS).
	hasher scrami.Hasher `yaml:"-"`
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// Initially, the .pgpass file in the d.PassDir folder is checked
// which should conform with the pgpass format with lines like this:
//
//	host:port:dbname:role:password
//
// If a database connection could not be established, passwords might
// have been updated during a previous incomplete password renewal.
// So the .pgpass.new file in the same d.PassDir folder is checked too.
// If a connection could be established with it, the .pgpass.new will
// be moved to the .pgpass file.
//
// The `d.RoleSuffix` will be appended to the given `r` role name too.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u)
	if err == nil {
		return p, nil
	}
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	log.Warn(
		ctx, "cannot connect with the main pass-file",
		slog.String("path", path),
		slog.String("fallback", newPath),
		log.Err("err", err),
	)
	u, err = d.ConnectionURL(r, newPath)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", newPath, err)
	}
	p, err = postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("can use neither pass-file: %w", err)
	}
	if err = os.Rename(newPath, path); err != nil {
		p.Close()
		return nil, fmt.Errorf("os.Rename: %w", err)
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. The password is
// read from the given `path` file which may contain empty or commented
// lines in addition to the pgpass format lines.
// Returned URL has the postgresql scheme.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	r = r + d.RoleSuffix
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", errors.New("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Database instance.
func (d Database) ConnectionInfo() (dbName, host string, port int) {
	return d.Name, d.Host, d.Port
}

// NewSchemaRepo instantiates a fresh Schema repository which suffixes
// the role names with `d.RoleSuffix` and hashes their passwords as
// expected by `d.AuthMethod`. ValidateAndNormalize must be called
// beforehand, so the hasher is instantiated.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New(d.RoleSuffix, d.hasher)
}

// RenewPasswords generates new secure passwords for the given roles
// and after recording them in a temporary file (i.e., .pgpass.new file
// in the `d.PassDir` directory), will use the `change` function in
// order to update the passwords of those `roles` in the database too.
// The `change` function argument should perform the update operation
// in a transaction which may or may not be committed when the
// RenewPasswords function returns. In case of a successful commitment,
// the temporary passwords file should be moved over the main passwords
// file using the returned finalizer function.
//
// The `d.RoleSuffix` will be appended to the given role names too.
// The `change` function must add the same suffix to `roles` roles names
// in order to remain consistent with the in-file recorded information.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	passwords := make([]string, len(roles))
	b := make([]byte, 16) // 128 bits
	enc := base64.RawStdEncoding
	p := make([]byte, enc.EncodedLen(len(b)))
	prfx := fmt.Sprintf("%s:%d:%s", d.Host, d.Port, d.Name)
	lines := make([]string, len(passwords))
	for i, r := range roles {
		if _, err = rand.Read(b); err != nil {
			return nil, fmt.Errorf("rand.Read for i=%d: %w", i, err)
		}
		enc.Encode(p, b)
		passwords[i] = string(p)
		r = r + d.RoleSuffix
		lines[i] = fmt.Sprintf("%s:%s:%s\n", prfx, r, passwords[i])
	}
	if err = os.MkdirAll(d.PassDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating pass-dir: %w", err)
	}
	orgPath := filepath.Join(d.PassDir, ".pgpass")
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	finalizer = func() error {
		return os.Rename(newPath, orgPath)
	}
	err = os.WriteFile(newPath, []byte(strings.Join(lines, "")), 0o600)
	if err != nil {
		return nil, fmt.Errorf("writing %q file: %w", newPath, err)
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return finalizer, nil
}

// ValidateAndNormalize validates the database settings, fills the
// missing host and port with their local defaults, and instantiates
// the passwords hasher based on the AuthMethod.
func (d *Database) ValidateAndNormalize() error {
	if d.Host == "" {
		d.Host = "127.0.0.1"
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.Port < 0 || d.Port > 65535 {
		return fmt.Errorf("invalid port: %d", d.Port)
	}
	if d.Name == "" {
		return errors.New("database name is empty")
	}
	m, err := scram.ForAuthMethod(d.AuthMethod)
	if err != nil {
		return err
	}
	if d.AuthMethod == "" {
		d.AuthMethod = scram.DefaultAuthMethod
	}
	d.hasher = m
	return nil
}
