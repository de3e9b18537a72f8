// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import "github.com/spf13/cobra"

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used respectively.`,
}

// credsRenewalMessage is shared by the database initialization commands.
const credsRenewalMessage = `
The admin and normal roles passwords are renewed and stored in the
.pgpass file of the pass-dir directory (as configured in the config
file). New passwords are written to the .pgpass.new file first and are
moved over the .pgpass file after the roles are updated, so a failed
attempt may be repeated using either of these files.`

func init() {
	rootCmd.AddCommand(dbCmd)
}
