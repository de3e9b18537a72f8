// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram declares the password hashing port which is used when
// the marketplace database roles are created or their passwords are
// renewed. Role passwords are sent to PostgreSQL in their verifier form
// only, so DDL statements never carry the plaintext passwords and their
// logging by the database server leaks nothing useful.
//
// The client/server conversations of SCRAM are handled by PostgreSQL
// and the pgx driver, so they are not modeled here.
package scram

// Hasher computes SCRAM verifiers for a fixed digest algorithm.
type Hasher interface {
	// Hash derives the verifier of the pass password. The salt is
	// a base64 string, or empty for a fresh random salt, and iters
	// must not be less than 4096. The result looks like
	//
	//	SCRAM-SHA-256$<iters>:<salt>$<StoredKey>:<ServerKey>
	//
	// which is accepted by CREATE/ALTER ROLE ... PASSWORD statements.
	Hash(pass, salt string, iters int) (string, error)
}
