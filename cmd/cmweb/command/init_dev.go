// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/carmarket/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development suitable data",
	Long: `Initialize database contents with development suitable data
for the database schema version which is specified in the configuration
file. It works like the init-prod command, but a few sample cars with
their option tags are listed too. Their file and image paths refer to
placeholders, so they should be replaced (using the admin APIs) before
the sample cars are published.
` + credsRenewalMessage,
	RunE: initDev,
	Args: cobra.NoArgs,
}

func initDev(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	muc := migrationuc.NewInitDB(c)
	if err = muc.InitDev(ctx); err != nil {
		return fmt.Errorf("initializing DB with dev data: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initDevCmd)
}
