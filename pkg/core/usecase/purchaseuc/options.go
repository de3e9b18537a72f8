// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package purchaseuc

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Option is a functional option for the purchase use case.
type Option func(uc *UseCase) error

// WithCurrency option configures the ISO currency code (e.g., usd)
// which is used for creating payment intents. This option may be
// passed to the New() function.
func WithCurrency(currency string) Option {
	return func(uc *UseCase) error {
		currency = strings.ToLower(strings.TrimSpace(currency))
		if len(currency) != 3 {
			return fmt.Errorf("currency (%q) is not a 3-letters code", currency)
		}
		if uc.currency != "" {
			return errors.New("currency is already configured")
		}
		uc.currency = currency
		return nil
	}
}

// WithLinkLifetime option configures how long a download verification
// remains redeemable after its creation.
func WithLinkLifetime(d time.Duration) Option {
	return func(uc *UseCase) error {
		if d <= 0 {
			return fmt.Errorf("link lifetime (%v) is not positive", d)
		}
		if uc.linkLifetime != 0 {
			return errors.New("link lifetime is already configured")
		}
		uc.linkLifetime = d
		return nil
	}
}

// WithPublicURL option configures the absolute base URL which is used
// for generating the download and image links of receipt emails.
func WithPublicURL(base string) Option {
	return func(uc *UseCase) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("parsing public URL: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("public URL (%q) is not absolute", base)
		}
		if uc.publicURL != nil {
			return errors.New("public URL is already configured")
		}
		uc.publicURL = u
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// computing the order times and download verification expiries.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock function is nil")
		}
		uc.now = now
		return nil
	}
}
