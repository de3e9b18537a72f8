// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mail defines the outbound email port.
package mail

import (
	"context"
	"time"

	"github.com/momeni/carmarket/pkg/core/model"
)

// Receipt is the purchase confirmation which is sent after an order
// is recorded. DownloadURL embeds the download verification token and
// ImageURL is the absolute URL of the car picture.
type Receipt struct {
	To          string
	Car         *model.Car
	Order       *model.Order
	DownloadURL string
	ExpiresAt   time.Time // of the download link
	ImageURL    string
}

// Sender sends emails to customers.
type Sender interface {
	SendReceipt(ctx context.Context, r *Receipt) error
}
