// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package downloaduc contains the download UseCase which redeems the
// download verification tokens of customers and streams the purchased
// car assets.
package downloaduc

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/storage"
)

// ErrInvalidLink indicates that a download link is malformed, unknown,
// expired, or refers to a deleted car. These cases are not told apart
// for customers.
var ErrInvalidLink = errors.New("download link is invalid or expired")

// UseCase represents a download use case.
type UseCase struct {
	pool        repo.Pool
	carsrp      repo.Cars
	downloadsrp repo.Downloads
	store       storage.Store
	now         func() time.Time
}

// New instantiates a download use case.
func New(
	p repo.Pool,
	cars repo.Cars,
	downloads repo.Downloads,
	s storage.Store,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:        p,
		carsrp:      cars,
		downloadsrp: downloads,
		store:       s,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Option is a functional option for the download use case.
type Option func(uc *UseCase) error

// WithClock option replaces the time.Now function which is used for
// checking the download verification expiries.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock function is nil")
		}
		uc.now = now
		return nil
	}
}

// Download is an opened car asset. Caller must close its Object.
type Download struct {
	*storage.Object
	FileName string
}

// Redeem validates the token download verification and opens the
// asset of its car. Tokens may be redeemed any number of times before
// their expiry. Every redemption failure which is caused by the token
// itself is reported as a cerr.Gone wrapping ErrInvalidLink.
func (uc *UseCase) Redeem(ctx context.Context, token string) (*Download, error) {
	dvID, err := uuid.Parse(token)
	if err != nil {
		return nil, cerr.Gone(ErrInvalidLink)
	}
	var car *model.Car
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		dv, err := uc.downloadsrp.Conn(c).Get(ctx, dvID)
		if err != nil {
			return err
		}
		if !dv.ValidAt(uc.now()) {
			return cerr.Gone(ErrInvalidLink)
		}
		car, err = uc.carsrp.Conn(c).Get(ctx, dv.CarID)
		return err
	})
	if cerr.IsNotFound(err) {
		return nil, cerr.Gone(ErrInvalidLink)
	}
	if err != nil {
		return nil, err
	}
	return uc.open(ctx, car)
}

// AdminDownload opens the asset of the carID car regardless of its
// availability.
func (uc *UseCase) AdminDownload(
	ctx context.Context, carID uuid.UUID,
) (*Download, error) {
	var car *model.Car
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var err error
		car, err = uc.carsrp.Conn(c).Get(ctx, carID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.open(ctx, car)
}

func (uc *UseCase) open(ctx context.Context, car *model.Car) (*Download, error) {
	obj, err := uc.store.Open(ctx, car.FilePath)
	if err != nil {
		return nil, fmt.Errorf("opening asset of car %s: %w", car.ID, err)
	}
	ext := obj.Ext
	if ext == "" {
		ext = path.Ext(car.FilePath)
	}
	return &Download{Object: obj, FileName: fileName(car.Name) + ext}, nil
}

// fileName keeps the car name readable in the Content-Disposition
// header while dropping path separators and quotes.
func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\r', '\n':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return "car"
	}
	return name
}
