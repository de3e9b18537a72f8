// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/momeni/carmarket/pkg/adapter/hash/bcrypt"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrator credentials helpers",
}

var hashCost int

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Compute the bcrypt hash of an administrator password",
	Long: `Read an administrator password from the standard input (its
first line) and print its bcrypt hash. The printed hash may be passed
as the ADMIN_PASSWORD_HASH environment variable (or the admin
password-hash config setting) of the web server, so the password
itself is never stored.`,
	RunE: hashPassword,
	Args: cobra.NoArgs,
}

func hashPassword(cmd *cobra.Command, _ []string) error {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading password: %w", err)
	}
	pass := strings.TrimRight(line, "\r\n")
	if pass == "" {
		return errors.New("password is empty")
	}
	h, err := bcrypt.Hash(pass, hashCost)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), h)
	return nil
}

func init() {
	hashPasswordCmd.Flags().IntVar(
		&hashCost, "cost", 0, "bcrypt cost (default cost if zero)",
	)
	adminCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(adminCmd)
}
