// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which instantiates
// all other use case objects, using a Builder and a shared set of
// repositories, and provides them to the resources packages.
package appuc

import (
	"errors"
	"fmt"

	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/usecase/carsuc"
	"github.com/momeni/carmarket/pkg/core/usecase/downloaduc"
	"github.com/momeni/carmarket/pkg/core/usecase/purchaseuc"
	"github.com/momeni/carmarket/pkg/core/usecase/statsuc"
)

// UseCase represents an application use case. It holds the use case
// objects which were created by a Builder. They are immutable after
// creation and safe for concurrent use, so they may be accessed by
// many request handling go routines.
type UseCase struct {
	cars      *carsuc.UseCase
	purchases *purchaseuc.UseCase
	downloads *downloaduc.UseCase
	stats     *statsuc.UseCase
}

// New instantiates an application use case object and asks the b
// Builder to create all supported use case objects. All fields of
// the r repositories must be provided.
func New(p repo.Pool, r *Repos, b Builder) (*UseCase, error) {
	if p == nil {
		return nil, errors.New("connection pool is nil")
	}
	if r == nil || r.Cars == nil || r.Options == nil || r.Users == nil ||
		r.Orders == nil || r.Downloads == nil || r.Fulfillments == nil {
		return nil, errors.New("repositories are missing")
	}
	uc := &UseCase{}
	var err error
	if uc.cars, err = b.NewCarsUseCase(p, r); err != nil {
		return nil, fmt.Errorf("creating cars use case: %w", err)
	}
	if uc.purchases, err = b.NewPurchaseUseCase(p, r); err != nil {
		return nil, fmt.Errorf("creating purchase use case: %w", err)
	}
	if uc.downloads, err = b.NewDownloadUseCase(p, r); err != nil {
		return nil, fmt.Errorf("creating download use case: %w", err)
	}
	if uc.stats, err = b.NewStatsUseCase(p, r); err != nil {
		return nil, fmt.Errorf("creating stats use case: %w", err)
	}
	return uc, nil
}

// CarsUseCase returns the catalog use case.
func (uc *UseCase) CarsUseCase() *carsuc.UseCase {
	return uc.cars
}

// PurchaseUseCase returns the purchase use case.
func (uc *UseCase) PurchaseUseCase() *purchaseuc.UseCase {
	return uc.purchases
}

// DownloadUseCase returns the download use case.
func (uc *UseCase) DownloadUseCase() *downloaduc.UseCase {
	return uc.downloads
}

// StatsUseCase returns the dashboard use case.
func (uc *UseCase) StatsUseCase() *statsuc.UseCase {
	return uc.stats
}
