// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/internal/test/sqlitedb"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/downloadsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/optionsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/ordersrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/carmarket/pkg/adapter/storage/disk"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/storage"
	"github.com/momeni/carmarket/pkg/core/usecase/carsuc"
	"github.com/stretchr/testify/suite"
)

type CarsTestSuite struct {
	suite.Suite

	Ctx       context.Context
	Pool      repo.Pool
	UC        *carsuc.UseCase
	AssetsDir string
	ImagesDir string
}

func TestCarsTestSuite(t *testing.T) {
	suite.Run(t, &CarsTestSuite{Ctx: context.Background()})
}

func (cts *CarsTestSuite) SetupTest() {
	t := cts.T()
	cts.Pool = sqlitedb.New(cts.Ctx, t)
	dir := t.TempDir()
	cts.AssetsDir = filepath.Join(dir, "assets")
	cts.ImagesDir = filepath.Join(dir, "images")
	store, err := disk.New(cts.AssetsDir, cts.ImagesDir, 0)
	cts.Require().NoError(err)
	cts.UC, err = carsuc.New(
		cts.Pool, carsrp.New(), optionsrp.New(), ordersrp.New(),
		downloadsrp.New(), store, carsuc.WithMaxUploadSize(64),
	)
	cts.Require().NoError(err)
}

func upload(name, contentType, content string) *storage.Upload {
	return &storage.Upload{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Content:     strings.NewReader(content),
	}
}

func form(name string) *carsuc.Form {
	return &carsuc.Form{
		Spec: model.CarSpec{
			Name: name, Brand: "Fiat", Model: "500", Year: 2015,
			Mileage: 88000, FuelType: "petrol", Description: "City car",
			PriceInCents: 650000,
		},
		Options: model.OptionTags{
			model.OptionComfort: {"air conditioning", " air conditioning"},
		},
		File:  upload("manual.pdf", "application/pdf", "manual"),
		Image: upload("front.png", "image/png", "not really a png"),
	}
}

func (cts *CarsTestSuite) files(dir string) []string {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	cts.Require().NoError(err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func status(err error) int {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		return ce.HTTPStatusCode
	}
	return 0
}

func (cts *CarsTestSuite) TestCreateValidatesBeforeWriting() {
	f := form("")
	f.Spec.PriceInCents = 0
	f.Image = upload("x.txt", "text/plain", "text")
	f.File = upload("big.bin", "application/octet-stream", strings.Repeat("x", 65))
	f.Options["wheels"] = []string{"alloy"}
	_, err := cts.UC.Create(cts.Ctx, f)
	cts.Require().Error(err)
	cts.Equal(http.StatusBadRequest, status(err))
	var fe cerr.FieldErrors
	cts.Require().ErrorAs(err, &fe)
	for _, field := range []string{"name", "price_in_cents", "image", "file", "options"} {
		cts.Contains(fe, field)
	}
	cts.Empty(cts.files(cts.AssetsDir))
	cts.Empty(cts.files(cts.ImagesDir))

	cars, err := cts.UC.AdminList(cts.Ctx)
	cts.Require().NoError(err)
	cts.Empty(cars)
}

func (cts *CarsTestSuite) TestCreateAndPublish() {
	car, err := cts.UC.Create(cts.Ctx, form("Panda"))
	cts.Require().NoError(err)
	cts.False(car.IsAvailableForPurchase)
	cts.Equal([]string{"air conditioning"}, car.Options[model.OptionComfort])
	cts.Len(cts.files(cts.AssetsDir), 1)
	cts.Len(cts.files(cts.ImagesDir), 1)

	_, err = cts.UC.Get(cts.Ctx, car.ID)
	cts.True(cerr.IsNotFound(err), "unpublished car must be hidden")
	cars, err := cts.UC.List(cts.Ctx, "", 0)
	cts.Require().NoError(err)
	cts.Empty(cars)

	_, err = cts.UC.SetAvailability(cts.Ctx, car.ID, true)
	cts.Require().NoError(err)
	got, err := cts.UC.Get(cts.Ctx, car.ID)
	cts.Require().NoError(err)
	cts.Equal("Panda", got.Name)
	cts.Equal([]string{"air conditioning"}, got.Options[model.OptionComfort])

	cars, err = cts.UC.List(cts.Ctx, model.CarOrderPopular, 10)
	cts.Require().NoError(err)
	cts.Len(cars, 1)

	_, err = cts.UC.List(cts.Ctx, "price", 10)
	cts.Equal(http.StatusBadRequest, status(err))
}

func (cts *CarsTestSuite) TestUpdateReplacesFiles() {
	car, err := cts.UC.Create(cts.Ctx, form("Punto"))
	cts.Require().NoError(err)
	oldAssets := cts.files(cts.AssetsDir)

	f := form("Punto Evo")
	f.Image = nil
	f.Options = model.OptionTags{model.OptionSafety: {"abs"}}
	updated, err := cts.UC.Update(cts.Ctx, car.ID, f)
	cts.Require().NoError(err)
	cts.Equal("Punto Evo", updated.Name)
	cts.Equal(car.ImagePath, updated.ImagePath)
	cts.NotEqual(car.FilePath, updated.FilePath)
	newAssets := cts.files(cts.AssetsDir)
	cts.Len(newAssets, 1, "replaced asset must be removed")
	cts.NotEqual(oldAssets, newAssets)

	got, err := cts.UC.AdminGet(cts.Ctx, car.ID)
	cts.Require().NoError(err)
	cts.Empty(got.Options[model.OptionComfort])
	cts.Equal([]string{"abs"}, got.Options[model.OptionSafety])

	_, err = cts.UC.Update(cts.Ctx, uuid.New(), form("Ghost"))
	cts.True(cerr.IsNotFound(err))
	cts.Len(cts.files(cts.AssetsDir), 1, "failed updates leave no files")
	cts.Len(cts.files(cts.ImagesDir), 1)
}

func (cts *CarsTestSuite) TestDelete() {
	car, err := cts.UC.Create(cts.Ctx, form("Tipo"))
	cts.Require().NoError(err)
	sold, err := cts.UC.Create(cts.Ctx, form("Uno"))
	cts.Require().NoError(err)

	now := time.Now().UTC()
	err = cts.Pool.Conn(cts.Ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			err := downloadsrp.New().Tx(tx).Create(ctx, &model.DownloadVerification{
				ID: uuid.New(), CarID: car.ID,
				ExpiresAt: now.Add(time.Hour), CreatedAt: now,
			})
			if err != nil {
				return err
			}
			u, err := usersrp.New().Tx(tx).Upsert(ctx, "b@example.com", now)
			if err != nil {
				return err
			}
			return ordersrp.New().Tx(tx).Create(ctx, &model.Order{
				ID: uuid.New(), UserID: u.ID, CarID: sold.ID,
				PricePaidInCents: 1, CreatedAt: now,
			})
		})
	})
	cts.Require().NoError(err)

	err = cts.UC.Delete(cts.Ctx, sold.ID)
	cts.Equal(http.StatusConflict, status(err))

	cts.Require().NoError(cts.UC.Delete(cts.Ctx, car.ID))
	_, err = cts.UC.AdminGet(cts.Ctx, car.ID)
	cts.True(cerr.IsNotFound(err))
	cts.Len(cts.files(cts.AssetsDir), 1, "only the sold car file remains")
	cts.Len(cts.files(cts.ImagesDir), 1)

	err = cts.UC.Delete(cts.Ctx, car.ID)
	cts.True(cerr.IsNotFound(err))
}

func (cts *CarsTestSuite) TestSetAvailabilityRequiresFiles() {
	now := time.Now().UTC()
	car := &model.Car{
		ID:        uuid.New(),
		CarSpec:   form("Draft").Spec,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := cts.Pool.Conn(cts.Ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return carsrp.New().Tx(tx).Create(ctx, car)
		})
	})
	cts.Require().NoError(err)
	_, err = cts.UC.SetAvailability(cts.Ctx, car.ID, true)
	cts.Equal(http.StatusBadRequest, status(err))
	cts.ErrorIs(err, model.ErrMissingFiles)

	unpublished, err := cts.UC.SetAvailability(cts.Ctx, car.ID, false)
	cts.Require().NoError(err)
	cts.False(unpublished.IsAvailableForPurchase)
}

func (cts *CarsTestSuite) TestSetAvailabilityUsesClock() {
	at := time.Date(2031, 5, 6, 7, 8, 9, 0, time.UTC)
	store, err := disk.New(cts.AssetsDir, cts.ImagesDir, 0)
	cts.Require().NoError(err)
	uc, err := carsuc.New(
		cts.Pool, carsrp.New(), optionsrp.New(), ordersrp.New(),
		downloadsrp.New(), store,
		carsuc.WithClock(func() time.Time { return at }),
	)
	cts.Require().NoError(err)
	car, err := uc.Create(cts.Ctx, form("Bravo"))
	cts.Require().NoError(err)
	cts.True(at.Equal(car.CreatedAt))

	at = at.Add(time.Hour)
	published, err := uc.SetAvailability(cts.Ctx, car.ID, true)
	cts.Require().NoError(err)
	cts.True(at.Equal(published.UpdatedAt), "got %v", published.UpdatedAt)
	cts.True(car.CreatedAt.Equal(published.CreatedAt))
}
