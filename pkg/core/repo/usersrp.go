// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/momeni/carmarket/pkg/core/model"
)

// UsersQueryer lists the users queries.
type UsersQueryer interface {
	// Upsert returns the user with the given email, creating it with
	// the now creation time if it does not exist.
	Upsert(
		ctx context.Context, email string, now time.Time,
	) (*model.User, error)

	// Count returns the number of users.
	Count(ctx context.Context) (int64, error)
}

// Users interface presents expectations from the users repository.
// Connections and transactions support the same queries.
type Users interface {
	Conn(Conn) UsersQueryer
	Tx(Tx) UsersQueryer
}
