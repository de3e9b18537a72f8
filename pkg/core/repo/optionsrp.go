// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/core/model"
)

// OptionsConnQueryer lists the option tags queries which may run on
// a connection.
type OptionsConnQueryer interface {
	OptionsQueryer
}

// OptionsTxQueryer lists the option tags queries which may run in a
// transaction. Replacing tags consists of several statements and so
// is only available in a transaction.
type OptionsTxQueryer interface {
	OptionsQueryer

	// Replace deletes all tags of the carID car and inserts the given
	// tags instead, so the persisted set equals tags afterwards.
	Replace(ctx context.Context, carID uuid.UUID, tags model.OptionTags) error

	// DeleteAll deletes all tags of the carID car in all categories.
	DeleteAll(ctx context.Context, carID uuid.UUID) error
}

// OptionsQueryer lists the common option tags queries.
type OptionsQueryer interface {
	// List returns the tags of carID car. All known categories are
	// present in the returned map.
	List(ctx context.Context, carID uuid.UUID) (model.OptionTags, error)
}

// Options interface presents expectations from the option tags
// repository.
type Options interface {
	Conn(Conn) OptionsConnQueryer
	Tx(Tx) OptionsTxQueryer
}
