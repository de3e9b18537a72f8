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

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data
for the database schema version which is specified in the configuration
file. The database connection information are also read from the config
file. No changes will be made to the config file itself.
` + credsRenewalMessage + `

If database schema version X.Y.Z is asked in the config file, while the
latest known minor and patch versions in the X schema major version are
equal to Y' and Z' respectively, relevant tables of version X.Y'.Z' will
be created in the cmwebX schema (without updating the config file).
The cmwebX schema is dropped and created again, so its previous
contents are lost. No car is listed in a production database.`,
	RunE: initProd,
	Args: cobra.NoArgs,
}

func initProd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	muc := migrationuc.NewInitDB(c)
	if err = muc.InitProd(ctx); err != nil {
		return fmt.Errorf("initializing DB with prod data: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initProdCmd)
}
