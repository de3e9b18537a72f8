// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// Secrets may be kept out of the configuration file and passed as
// environment variables instead. The Load function overlays them on
// top of the file contents.
package cfg1

import (
	"context"
	"errors"
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/momeni/carmarket/pkg/adapter/config/settings"
	"github.com/momeni/carmarket/pkg/adapter/config/vers"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/migration"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Config contains all settings which are required by different parts
// of the project following the v1.x.y format, such as adapters or
// use cases. It is preferred to implement Config with primitive fields
// or other structs which are defined locally, not models or structs
// which are defined in lower layers, so the configuration can be
// versioned and kept intact while other layers can change freely.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Logging  Logging  // Structured logging handler settings
	Usecases Usecases // Configuration settings for supported use cases
	Storage  Storage  // Uploaded files locations and limits
	Stripe   Stripe   // Payment processor credentials
	Resend   Resend   // Transactional email credentials
	Admin    Admin    // Administrator credentials

	// Vers contains the configuration file and database schema version
	// strings corresponding to this Config instance and its Database
	// target.
	Vers vers.Config `yaml:",inline"`
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, the secrets and other environment provided
// settings (see the environ struct) overwrite the loaded values
// when they are set and non-empty. At last, the Config is validated
// and normalized in order to ensure that provided settings are
// acceptable (for example the major version which is reported by data
// settings must match with number 1 which is the major version of this
// config package).
//
// Presence of secrets is not checked by Load because the database
// management commands do not need them. See the ValidateSecrets.
func Load(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.overlayEnv(); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// environ lists the settings which may be given as environment
// variables. Empty variables are ignored.
type environ struct {
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	ResendAPIKey        string `env:"RESEND_API_KEY"`
	SenderEmail         string `env:"SENDER_EMAIL"`
	AdminUsername       string `env:"ADMIN_USERNAME"`
	AdminPasswordHash   string `env:"ADMIN_PASSWORD_HASH"`
	PublicURL           string `env:"PUBLIC_URL"`
}

func (c *Config) overlayEnv() error {
	e := environ{}
	if err := env.Parse(&e); err != nil {
		return err
	}
	for _, o := range []struct {
		dst *string
		src string
	}{
		{&c.Stripe.SecretKey, e.StripeSecretKey},
		{&c.Stripe.WebhookSecret, e.StripeWebhookSecret},
		{&c.Resend.APIKey, e.ResendAPIKey},
		{&c.Resend.Sender, e.SenderEmail},
		{&c.Admin.Username, e.AdminUsername},
		{&c.Admin.PasswordHash, e.AdminPasswordHash},
		{&c.Usecases.Purchases.PublicURL, e.PublicURL},
	} {
		if o.src != "" {
			*o.dst = o.src
		}
	}
	return nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.Validate(Major, Minor); err != nil {
		return fmt.Errorf(
			"expecting version v%d.%d: %w", Major, Minor, err,
		)
	}
	if _, err := migration.LatestVersion(c.SchemaVersion()); err != nil {
		return fmt.Errorf("unsupported database schema version: %w", err)
	}
	settings.Nil2Zero(&c.Gin.Logger)
	settings.Nil2Zero(&c.Gin.Recovery)
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Logging.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating logging settings: %w", err)
	}
	if err := c.Usecases.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating usecases settings: %w", err)
	}
	if err := c.Storage.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating storage settings: %w", err)
	}
	return nil
}

// ValidateSecrets ensures that all credentials which are required for
// serving the REST APIs are provided. The administrator credentials
// are optional, but if one of them is given, the other one is needed
// too.
func (c *Config) ValidateSecrets() error {
	var errs []error
	for _, s := range []struct {
		name, value string
	}{
		{"STRIPE_SECRET_KEY", c.Stripe.SecretKey},
		{"STRIPE_WEBHOOK_SECRET", c.Stripe.WebhookSecret},
		{"RESEND_API_KEY", c.Resend.APIKey},
		{"SENDER_EMAIL", c.Resend.Sender},
	} {
		if s.value == "" {
			errs = append(errs, fmt.Errorf("%s is not set", s.name))
		}
	}
	if (c.Admin.Username == "") != (c.Admin.PasswordHash == "") {
		errs = append(errs, errors.New(
			"ADMIN_USERNAME and ADMIN_PASSWORD_HASH must be set together",
		))
	}
	return errors.Join(errs...)
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"%s.ConnectionPool: %w", c.Database.Name, err,
		)
	}
	return p, nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Config instance.
func (c *Config) ConnectionInfo() (dbName, host string, port int) {
	return c.Database.ConnectionInfo()
}

// NewSchemaRepo instantiates a fresh Schema repository.
// Role names may be optionally suffixed based on the settings and
// in that case, repo.Role role names which are passed to the
// ConnectionPool method or RenewPasswords will be suffixed
// automatically.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// SchemaInitializer creates a repo.SchemaInitializer instance which
// wraps the given transaction argument and can be used to initialize
// the database with development or production suitable data. The format
// of the created tables and their initial data rows are chosen based
// on the database schema version, as indicated by SchemaVersion method.
func (c *Config) SchemaInitializer(tx repo.Tx) (
	repo.SchemaInitializer, error,
) {
	return migration.NewInitializer(tx, c.SchemaVersion())
}

// RenewPasswords generates new secure passwords for the given roles
// and after recording them in a temporary file, will use the change
// function in order to update the passwords of those roles in the
// database too. See Database.RenewPasswords for details.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// SchemaVersion returns the semantic version of the database schema
// which its connection information are kept by this Config struct.
// There is no direct dependency between the configuration file and
// database schema versions.
func (c *Config) SchemaVersion() model.SemVer {
	return c.Vers.Versions.Database
}

// Version returns the semantic version of this Config struct contents.
func (c *Config) Version() model.SemVer {
	return c.Vers.Versions.Config
}
