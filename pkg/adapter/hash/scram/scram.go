// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram computes the PostgreSQL SCRAM password verifiers using
// the github.com/xdg-go/scram module. Mechanisms are looked up by the
// database authentication method names, see ForAuthMethod.
package scram

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/xdg-go/scram"
)

// MinIterations is the smallest PBKDF2 iterations count which is
// accepted by Hash.
const MinIterations = 4096

// DefaultAuthMethod is used when no authentication method is set.
const DefaultAuthMethod = "scram-sha-256"

// Mechanism hashes passwords with one SCRAM digest algorithm.
// It implements the pkg/core/scram.Hasher interface.
type Mechanism struct {
	gen      scram.HashGeneratorFcn
	saltSize int
	prefix   string
}

var mechanisms = map[string]*Mechanism{
	"scram-sha-1":   {gen: scram.SHA1, saltSize: 20, prefix: "SCRAM-SHA-1"},
	"scram-sha-256": {gen: scram.SHA256, saltSize: 32, prefix: "SCRAM-SHA-256"},
}

// ForAuthMethod returns the mechanism of the method authentication
// method, matched case-insensitively. An empty method selects the
// DefaultAuthMethod.
func ForAuthMethod(method string) (*Mechanism, error) {
	if method == "" {
		method = DefaultAuthMethod
	}
	m, ok := mechanisms[strings.ToLower(method)]
	if !ok {
		return nil, fmt.Errorf(
			"unsupported database authentication method: %q", method,
		)
	}
	return m, nil
}

// SHA256 returns the SCRAM-SHA-256 mechanism.
func SHA256() *Mechanism {
	return mechanisms["scram-sha-256"]
}

// Hash computes the verifier of pass. See scram.Hasher in the core
// layer for the arguments and output format.
func (m *Mechanism) Hash(pass, salt string, iters int) (string, error) {
	if pass == "" {
		return "", errors.New("password must be non-empty")
	}
	if iters < MinIterations {
		return "", fmt.Errorf(
			"iters (%d) is less than %d", iters, MinIterations,
		)
	}
	var rawSalt []byte
	var err error
	if salt == "" {
		rawSalt = make([]byte, m.saltSize)
		if _, err = rand.Read(rawSalt); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(rawSalt)
	} else if rawSalt, err = base64.StdEncoding.DecodeString(salt); err != nil {
		return "", fmt.Errorf("decoding base64 salt: %w", err)
	}
	// NewClient applies SASLprep to pass. The user name does not
	// affect the derived keys.
	c, err := m.gen.NewClient("role", pass, "")
	if err != nil {
		return "", fmt.Errorf("creating SCRAM client: %w", err)
	}
	sc := c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(rawSalt),
		Iters: iters,
	})
	enc := base64.StdEncoding.EncodeToString
	return fmt.Sprintf(
		"%s$%d:%s$%s:%s", m.prefix, iters, salt,
		enc(sc.StoredKey), enc(sc.ServerKey),
	), nil
}
