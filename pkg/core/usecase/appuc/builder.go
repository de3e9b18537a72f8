// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/usecase/carsuc"
	"github.com/momeni/carmarket/pkg/core/usecase/downloaduc"
	"github.com/momeni/carmarket/pkg/core/usecase/purchaseuc"
	"github.com/momeni/carmarket/pkg/core/usecase/statsuc"
)

// Repos contains one instance of each repository which may be needed
// by the supported use cases. Repositories are stateless, so the same
// instances are shared by all use cases.
type Repos struct {
	Cars         repo.Cars
	Options      repo.Options
	Users        repo.Users
	Orders       repo.Orders
	Downloads    repo.Downloads
	Fulfillments repo.Fulfillments
}

// Builder interface represents the expectations from the application
// use case builders. All use cases which can be instantiated by a
// configuration struct have one NewX method here which takes the
// database connection pool and their repository dependencies.
// The latest configuration struct version implements this interface,
// creating the payment, mail, and storage adapters which are required
// by each use case based on its contained settings. Tests may provide
// their own Builder in order to inject fake adapters.
type Builder interface {
	// NewCarsUseCase creates a catalog use case object.
	NewCarsUseCase(p repo.Pool, r *Repos) (*carsuc.UseCase, error)

	// NewPurchaseUseCase creates a purchase use case object which
	// creates payment intents and fulfills the confirmed payments.
	NewPurchaseUseCase(
		p repo.Pool, r *Repos,
	) (*purchaseuc.UseCase, error)

	// NewDownloadUseCase creates a download use case object which
	// serves the purchased files.
	NewDownloadUseCase(
		p repo.Pool, r *Repos,
	) (*downloaduc.UseCase, error)

	// NewStatsUseCase creates an administrative dashboard use case.
	NewStatsUseCase(p repo.Pool, r *Repos) (*statsuc.UseCase, error)
}
