// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"fmt"
	"time"

	"github.com/momeni/carmarket/pkg/adapter/config/settings"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/usecase/appuc"
	"github.com/momeni/carmarket/pkg/core/usecase/carsuc"
	"github.com/momeni/carmarket/pkg/core/usecase/downloaduc"
	"github.com/momeni/carmarket/pkg/core/usecase/purchaseuc"
	"github.com/momeni/carmarket/pkg/core/usecase/statsuc"
)

var _ appuc.Builder = (*Config)(nil)

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Purchases Purchases // purchase use cases related settings
}

// ValidateAndNormalize verifies the use cases settings.
func (u *Usecases) ValidateAndNormalize() error {
	return u.Purchases.ValidateAndNormalize()
}

// Purchases contains the configuration settings for the purchase use
// cases. Nil and empty fields are left to the use cases layer, so it
// may select their default values.
type Purchases struct {
	// LinkLifetime indicates how long a download link remains valid
	// after its payment is confirmed.
	LinkLifetime *settings.Duration `yaml:"link-lifetime,omitempty"`
	// MinLinkLifetime is the inclusive minimum acceptable value for
	// the LinkLifetime setting.
	// A missing value indicates that there is no lower bound.
	MinLinkLifetime *settings.Duration `yaml:"link-lifetime-minimum,omitempty"`
	// MaxLinkLifetime is the inclusive maximum acceptable value for
	// the LinkLifetime setting.
	// A missing value indicates that there is no upper bound.
	MaxLinkLifetime *settings.Duration `yaml:"link-lifetime-maximum,omitempty"`

	// Currency is a three letters ISO code, like usd.
	Currency string `yaml:"currency,omitempty"`

	// PublicURL is the absolute URL which the customers use in order
	// to reach this server, so download links may be sent to them.
	// It may be overridden by the PUBLIC_URL environment variable.
	PublicURL string `yaml:"public-url,omitempty"`
}

// ValidateAndNormalize verifies that the link lifetime is positive and
// respects its boundaries.
func (p *Purchases) ValidateAndNormalize() error {
	if p.LinkLifetime != nil && *p.LinkLifetime <= 0 {
		return fmt.Errorf(
			"non-positive link-lifetime: %s",
			*p.LinkLifetime,
		)
	}
	return durationRange(
		"link lifetime",
		&p.LinkLifetime, p.MinLinkLifetime, p.MaxLinkLifetime,
	)
}

// options converts the `p` settings to the purchase use case options.
func (p Purchases) options() []purchaseuc.Option {
	opts := make([]purchaseuc.Option, 0, 3)
	if p.LinkLifetime != nil {
		d := time.Duration(*p.LinkLifetime)
		opts = append(opts, purchaseuc.WithLinkLifetime(d))
	}
	if p.Currency != "" {
		opts = append(opts, purchaseuc.WithCurrency(p.Currency))
	}
	if p.PublicURL != "" {
		opts = append(opts, purchaseuc.WithPublicURL(p.PublicURL))
	}
	return opts
}

// NewCarsUseCase instantiates a new cars use case based on the storage
// settings in the `c` struct.
func (c *Config) NewCarsUseCase(
	p repo.Pool, r *appuc.Repos,
) (*carsuc.UseCase, error) {
	s, err := c.Storage.NewStore()
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	opts := make([]carsuc.Option, 0, 1)
	if c.Storage.MaxUploadSize != nil {
		opts = append(opts, carsuc.WithMaxUploadSize(*c.Storage.MaxUploadSize))
	}
	return carsuc.New(p, r.Cars, r.Options, r.Orders, r.Downloads, s, opts...)
}

// NewPurchaseUseCase instantiates a new purchase use case which uses
// the Stripe payment gateway and the Resend receipt sender.
func (c *Config) NewPurchaseUseCase(
	p repo.Pool, r *appuc.Repos,
) (*purchaseuc.UseCase, error) {
	g, err := c.Stripe.NewGateway()
	if err != nil {
		return nil, fmt.Errorf("creating stripe gateway: %w", err)
	}
	m, err := c.Resend.NewSender()
	if err != nil {
		return nil, fmt.Errorf("creating resend sender: %w", err)
	}
	return purchaseuc.New(
		p, r.Cars, r.Users, r.Orders, r.Downloads, r.Fulfillments,
		g, m, c.Usecases.Purchases.options()...,
	)
}

// NewDownloadUseCase instantiates a new download use case which reads
// the purchased files from the configured storage.
func (c *Config) NewDownloadUseCase(
	p repo.Pool, r *appuc.Repos,
) (*downloaduc.UseCase, error) {
	s, err := c.Storage.NewStore()
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return downloaduc.New(p, r.Cars, r.Downloads, s)
}

// NewStatsUseCase instantiates a new dashboard use case.
func (c *Config) NewStatsUseCase(
	p repo.Pool, r *appuc.Repos,
) (*statsuc.UseCase, error) {
	return statsuc.New(p, r.Cars, r.Users, r.Orders), nil
}
