// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bcrypt hashes and verifies the administrator password using
// the bcrypt algorithm. Only the password hash is kept in the
// configuration, so a leaked configuration does not reveal it.
package bcrypt

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash computes the bcrypt hash of password. A zero cost selects the
// bcrypt default cost.
func Hash(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

// Credentials holds a username and the bcrypt hash of its password.
type Credentials struct {
	username string
	hash     []byte
}

// NewCredentials validates the passwordHash format and returns the
// Credentials of username.
func NewCredentials(username, passwordHash string) (*Credentials, error) {
	if username == "" {
		return nil, errors.New("username is empty")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	return &Credentials{
		username: username,
		hash:     []byte(passwordHash),
	}, nil
}

// Verify reports whether username and password match with c.
func (c *Credentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare(
		[]byte(username), []byte(c.username),
	) == 1
	passOK := bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
	return userOK && passOK
}
