// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carmarket/pkg/adapter/config/cfg1"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/downloadsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/fulfillmentsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/optionsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/ordersrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/usersrp"
	ginwrap "github.com/momeni/carmarket/pkg/adapter/restful/gin"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/carsrs"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/catalogrs"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/downloadrs"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/purchasers"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/statsrs"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/webhookrs"
	"github.com/momeni/carmarket/pkg/adapter/storage/disk"
	"github.com/momeni/carmarket/pkg/core/log"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/usecase/appuc"
)

// APIPrefix is the path prefix of the JSON REST APIs.
const APIPrefix = "/api/cmweb/v1"

// Repos instantiates the gorm based repositories.
func Repos() *appuc.Repos {
	return &appuc.Repos{
		Cars:         carsrp.New(),
		Options:      optionsrp.New(),
		Users:        usersrp.New(),
		Orders:       ordersrp.New(),
		Downloads:    downloadsrp.New(),
		Fulfillments: fulfillmentsrp.New(),
	}
}

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases. Each use case package is named
// like carsuc and each repository package is named like carsrp.
// Actual instantiation of use case objects are delegated to the
// c Config instance and the appuc use case.
// Thereafter, Mount registers the resources using the e engine.
func Register(
	ctx context.Context, e *gin.Engine, p repo.Pool, c *cfg1.Config,
) error {
	app, err := appuc.New(p, Repos(), c)
	if err != nil {
		return fmt.Errorf("creating application use case: %w", err)
	}
	creds, err := c.Admin.Credentials()
	if err != nil {
		return fmt.Errorf("loading admin credentials: %w", err)
	}
	var v ginwrap.Verifier
	if creds != nil {
		v = creds
	} else {
		log.Warn(ctx, "admin credentials are not set, admin APIs are disabled")
	}
	Mount(e, app, v, c.Storage.ImagesDir)
	return nil
}

// Mount registers the resources packages which adapt the app use cases
// with the REST APIs. Administrative APIs are protected by the HTTP
// basic authentication and are checked by the admin verifier. Stored
// images are served from the imagesDir directory.
func Mount(
	e *gin.Engine, app *appuc.UseCase, admin ginwrap.Verifier,
	imagesDir string,
) {
	serdser.UseTagNames()
	e.Static(disk.ImagesURLPath, imagesDir)

	root := e.Group("/")
	webhookrs.Register(root, app.PurchaseUseCase())

	api := e.Group(APIPrefix)
	catalogrs.Register(api, app.CarsUseCase())
	purchasers.Register(api, app.PurchaseUseCase())

	adm := e.Group(APIPrefix, ginwrap.BasicAuth("cmweb admin", admin))
	carsrs.Register(adm, app.CarsUseCase())
	statsrs.Register(adm, app.StatsUseCase())
	downloadrs.Register(root, adm, app.DownloadUseCase())
}
