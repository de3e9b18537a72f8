// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands of the car
// marketplace web server. Commands are organized using the cobra
// library. The root command starts the web server itself while the
// "db" sub-command initializes the database and the "admin"
// sub-command helps with the administrator credentials.
//
//	./cmweb [-c /path/of/main/config.yaml]           # start web server
//	./cmweb db init-dev [-c /path/of/main/config.yaml]
//	./cmweb db init-prod [-c /path/of/main/config.yaml]
//	./cmweb admin hash-password
//
// A .env file in the working directory (if any) is loaded before the
// configuration file, so secrets may be kept out of the config file.
package command

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/momeni/carmarket/pkg/adapter/config"
	"github.com/momeni/carmarket/pkg/adapter/config/cfg1"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/routes"
	"github.com/momeni/carmarket/pkg/core/log"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "cmweb",
	Short: "A car marketplace which sells the documents of listed cars",
	Long: `A car marketplace web server which lists cars with their
option tags, takes payments for them using Stripe payment intents, and
records an order along with a time-limited download link when Stripe
reports a successful charge. The purchased file may be downloaded by
the link which is emailed (using Resend) to the customer.
Administrators manage the listings and view the sales dashboard using
the APIs which are protected by the HTTP basic authentication.

The Stripe and Resend secrets and the administrator credentials are
read from the STRIPE_SECRET_KEY, STRIPE_WEBHOOK_SECRET, RESEND_API_KEY,
SENDER_EMAIL, ADMIN_USERNAME, and ADMIN_PASSWORD_HASH environment
variables. The listening address may be set by the PORT variable.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err = c.ValidateSecrets(); err != nil {
		return fmt.Errorf("missing secrets: %w", err)
	}
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	var e *gin.Engine = c.Gin.NewEngine(*c.Storage.MaxUploadSize)
	if err = routes.Register(ctx, e, p, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	log.Info(ctx, "starting web server",
		slog.String("database", c.Database.Name),
		log.Stringer("schema", c.SchemaVersion()),
	)
	if err = e.Run(); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// loadConfig loads the .env file (if it exists), parses the cfgPath
// configuration file, and installs its logging handler as the default
// slog logger.
func loadConfig(ctx context.Context) (*cfg1.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	slog.SetDefault(slog.New(c.Logging.NewHandler(os.Stderr)))
	log.Debug(ctx, "configuration is loaded", slog.String("path", cfgPath))
	return c, nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
