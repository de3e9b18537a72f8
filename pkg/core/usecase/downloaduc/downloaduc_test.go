// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package downloaduc_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/internal/test/sqlitedb"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres/downloadsrp"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/storage"
	"github.com/momeni/carmarket/pkg/core/usecase/downloaduc"
	"github.com/stretchr/testify/suite"
)

// memStore keeps the assets in memory. Only Open is used by the
// download use case.
type memStore map[string]string

func (ms memStore) SaveAsset(context.Context, *storage.Upload) (string, error) {
	return "", errors.New("read-only store")
}

func (ms memStore) SaveImage(context.Context, *storage.Upload) (string, error) {
	return "", errors.New("read-only store")
}

func (ms memStore) Open(_ context.Context, p string) (*storage.Object, error) {
	content, ok := ms[p]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return &storage.Object{
		ReadCloser: io.NopCloser(strings.NewReader(content)),
		Size:       int64(len(content)),
	}, nil
}

func (ms memStore) Remove(context.Context, string) error {
	return nil
}

type DownloadTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pool repo.Pool
	UC   *downloaduc.UseCase
	Now  time.Time
	Car  *model.Car
}

func TestDownloadTestSuite(t *testing.T) {
	suite.Run(t, &DownloadTestSuite{Ctx: context.Background()})
}

func (dts *DownloadTestSuite) SetupTest() {
	dts.Pool = sqlitedb.New(dts.Ctx, dts.T())
	dts.Now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := memStore{"a1-brochure.pdf": "%PDF-1.4 brochure"}
	var err error
	dts.UC, err = downloaduc.New(
		dts.Pool, carsrp.New(), downloadsrp.New(), store,
		downloaduc.WithClock(func() time.Time { return dts.Now }),
	)
	dts.Require().NoError(err)
	dts.Car = &model.Car{
		ID: uuid.New(),
		CarSpec: model.CarSpec{
			Name: `Golf "GTI" 2/3`, Brand: "VW", Model: "Golf", Year: 2018,
			Mileage: 50000, FuelType: "petrol", Description: "Hot hatch",
			PriceInCents: 2000000,
		},
		FilePath:  "a1-brochure.pdf",
		ImagePath: "/images/golf.png",
		CreatedAt: dts.Now,
		UpdatedAt: dts.Now,
	}
	dts.tx(func(ctx context.Context, tx repo.Tx) error {
		return carsrp.New().Tx(tx).Create(ctx, dts.Car)
	})
}

func (dts *DownloadTestSuite) tx(f func(ctx context.Context, tx repo.Tx) error) {
	err := dts.Pool.Conn(dts.Ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, f)
	})
	dts.Require().NoError(err)
}

func (dts *DownloadTestSuite) link(carID uuid.UUID, expiresAt time.Time) uuid.UUID {
	dv := &model.DownloadVerification{
		ID:        uuid.New(),
		CarID:     carID,
		ExpiresAt: expiresAt,
		CreatedAt: dts.Now,
	}
	dts.tx(func(ctx context.Context, tx repo.Tx) error {
		return downloadsrp.New().Tx(tx).Create(ctx, dv)
	})
	return dv.ID
}

func (dts *DownloadTestSuite) TestRedeem() {
	id := dts.link(dts.Car.ID, dts.Now.Add(time.Minute))
	for i := 0; i < 3; i++ {
		d, err := dts.UC.Redeem(dts.Ctx, id.String())
		dts.Require().NoError(err, "redeem #%d", i)
		b, err := io.ReadAll(d)
		dts.Require().NoError(err)
		dts.Require().NoError(d.Close())
		dts.Equal("%PDF-1.4 brochure", string(b))
		dts.Equal(int64(len(b)), d.Size)
		dts.Equal(`Golf _GTI_ 2_3.pdf`, d.FileName)
	}
}

func (dts *DownloadTestSuite) TestRedeemRejections() {
	expired := dts.link(dts.Car.ID, dts.Now)
	for name, token := range map[string]string{
		"malformed":    "../../etc/passwd",
		"unknown":      uuid.NewString(),
		"expired":      expired.String(),
		"empty string": "",
	} {
		dts.Run(name, func() {
			_, err := dts.UC.Redeem(dts.Ctx, token)
			dts.True(cerr.IsGone(err), "got %v", err)
			dts.ErrorIs(err, downloaduc.ErrInvalidLink)
		})
	}
}

func (dts *DownloadTestSuite) TestMissingAssetIsNotGone() {
	dts.tx(func(ctx context.Context, tx repo.Tx) error {
		car := *dts.Car
		car.FilePath = "deleted.pdf"
		_, err := carsrp.New().Tx(tx).Update(ctx, &car)
		return err
	})
	id := dts.link(dts.Car.ID, dts.Now.Add(time.Hour))
	_, err := dts.UC.Redeem(dts.Ctx, id.String())
	dts.Require().Error(err)
	dts.False(cerr.IsGone(err))
	dts.ErrorIs(err, fs.ErrNotExist)
}

func (dts *DownloadTestSuite) TestAdminDownload() {
	d, err := dts.UC.AdminDownload(dts.Ctx, dts.Car.ID)
	dts.Require().NoError(err)
	dts.NoError(d.Close())
	_, err = dts.UC.AdminDownload(dts.Ctx, uuid.New())
	dts.True(cerr.IsNotFound(err))
}
