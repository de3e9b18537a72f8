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

// DownloadsQueryer lists the download verifications queries.
type DownloadsQueryer interface {
	// Create inserts dv. Its ID and timestamps must be set already.
	Create(ctx context.Context, dv *model.DownloadVerification) error

	// Get returns the dvID download verification, regardless of its
	// expiry, or a NotFound error.
	Get(ctx context.Context, dvID uuid.UUID) (*model.DownloadVerification, error)

	// DeleteByCar deletes all download verifications of carID car and
	// returns the number of deleted rows.
	DeleteByCar(ctx context.Context, carID uuid.UUID) (int64, error)
}

// Downloads interface presents expectations from the download
// verifications repository.
type Downloads interface {
	Conn(Conn) DownloadsQueryer
	Tx(Tx) DownloadsQueryer
}
