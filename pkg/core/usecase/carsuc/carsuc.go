// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsuc contains the cars UseCase which supports the catalog
// related use cases. Administrators create, edit, publish, and delete
// listings (including their stored files and option tags), while
// customers list the available cars and view their details.
package carsuc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/log"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/momeni/carmarket/pkg/core/storage"
)

// UseCase represents a cars use case. It holds a database connection
// pool, the repositories which are touched by catalog changes, the
// files store, and the cars use case specific settings.
type UseCase struct {
	pool        repo.Pool
	carsrp      repo.Cars
	optionsrp   repo.Options
	ordersrp    repo.Orders
	downloadsrp repo.Downloads
	store       storage.Store

	maxUploadSize int64
	now           func() time.Time
}

// New instantiates a cars use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool,
	cars repo.Cars,
	options repo.Options,
	orders repo.Orders,
	downloads repo.Downloads,
	s storage.Store,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:        p,
		carsrp:      cars,
		optionsrp:   options,
		ordersrp:    orders,
		downloadsrp: downloads,
		store:       s,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.maxUploadSize == 0 {
		uc.maxUploadSize = 64 << 20
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// List returns the cars which are available for purchase, sorted by
// the given order. A non-positive limit returns all of them.
func (uc *UseCase) List(
	ctx context.Context, order model.CarOrder, limit int,
) (cars []model.Car, err error) {
	switch order {
	case "":
		order = model.CarOrderNewest
	case model.CarOrderNewest, model.CarOrderPopular, model.CarOrderName:
	default:
		return nil, cerr.BadRequest(fmt.Errorf("unknown order: %q", order))
	}
	f := model.CarFilter{
		AvailableOnly: true,
		OrderBy:       order,
		Limit:         max(limit, 0),
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		cars, err = uc.carsrp.Conn(c).List(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cars, nil
}

// Get returns the details of an available car including its option
// tags. Unavailable cars are reported as not found.
func (uc *UseCase) Get(
	ctx context.Context, carID uuid.UUID,
) (*model.Car, error) {
	car, err := uc.get(ctx, carID)
	if err != nil {
		return nil, err
	}
	if !car.IsAvailableForPurchase {
		return nil, cerr.NotFound(fmt.Errorf("car %s is not available", carID))
	}
	return car, nil
}

// AdminGet returns the details of a car, regardless of its
// availability, including its option tags.
func (uc *UseCase) AdminGet(
	ctx context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return uc.get(ctx, carID)
}

func (uc *UseCase) get(
	ctx context.Context, carID uuid.UUID,
) (car *model.Car, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		car, err = uc.carsrp.Conn(c).Get(ctx, carID)
		if err != nil {
			return err
		}
		car.Options, err = uc.optionsrp.Conn(c).List(ctx, carID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return car, nil
}

// AdminList returns all cars with their orders count.
func (uc *UseCase) AdminList(
	ctx context.Context,
) (cars []model.CarSummary, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		cars, err = uc.carsrp.Conn(c).ListSummaries(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cars, nil
}

// Create validates the f form, stores its file and image, and inserts
// a new car with its option tags. New cars are not available for
// purchase until they are published by SetAvailability.
// Nothing is written if f is invalid. Stored files are removed again
// if the database transaction fails.
func (uc *UseCase) Create(
	ctx context.Context, f *Form,
) (car *model.Car, err error) {
	if err := f.Validate(true, uc.maxUploadSize); err != nil {
		return nil, err
	}
	var written []string
	defer func() {
		if err != nil {
			uc.removeFiles(ctx, written)
		}
	}()
	now := uc.now().UTC()
	car = &model.Car{
		ID:        uuid.New(),
		CarSpec:   f.Spec,
		CreatedAt: now,
		UpdatedAt: now,
	}
	car.FilePath, err = uc.store.SaveAsset(ctx, f.File)
	if err != nil {
		return nil, fmt.Errorf("saving asset file: %w", err)
	}
	written = append(written, car.FilePath)
	car.ImagePath, err = uc.store.SaveImage(ctx, f.Image)
	if err != nil {
		return nil, fmt.Errorf("saving image file: %w", err)
	}
	written = append(written, car.ImagePath)
	tags := f.Options.Normalize()
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if err := uc.carsrp.Tx(tx).Create(ctx, car); err != nil {
				return fmt.Errorf("inserting car: %w", err)
			}
			err := uc.optionsrp.Tx(tx).Replace(ctx, car.ID, tags)
			if err != nil {
				return fmt.Errorf("inserting option tags: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	car.Options = tags
	log.Info(ctx, "car is created", log.Stringer("car", car.ID))
	return car, nil
}

// Update validates the f form and replaces the CarSpec fields and
// option tags of the carID car. The file and image of f are optional and the current
// ones are kept if they are missing. The car row is locked during the
// update, so concurrent edits of one car are serialized. A new file is
// written before its reference is updated and the replaced file is
// removed only after the transaction is committed.
func (uc *UseCase) Update(
	ctx context.Context, carID uuid.UUID, f *Form,
) (car *model.Car, err error) {
	if err := f.Validate(false, uc.maxUploadSize); err != nil {
		return nil, err
	}
	var written, obsolete []string
	defer func() {
		if err != nil {
			uc.removeFiles(ctx, written)
		}
	}()
	tags := f.Options.Normalize()
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.carsrp.Tx(tx)
			old, err := q.GetForUpdate(ctx, carID)
			if err != nil {
				return err
			}
			updated := *old
			updated.CarSpec = f.Spec
			updated.UpdatedAt = uc.now().UTC()
			if f.File != nil {
				p, err := uc.store.SaveAsset(ctx, f.File)
				if err != nil {
					return fmt.Errorf("saving asset file: %w", err)
				}
				written = append(written, p)
				obsolete = append(obsolete, old.FilePath)
				updated.FilePath = p
			}
			if f.Image != nil {
				p, err := uc.store.SaveImage(ctx, f.Image)
				if err != nil {
					return fmt.Errorf("saving image file: %w", err)
				}
				written = append(written, p)
				obsolete = append(obsolete, old.ImagePath)
				updated.ImagePath = p
			}
			car, err = q.Update(ctx, &updated)
			if err != nil {
				return fmt.Errorf("updating car: %w", err)
			}
			err = uc.optionsrp.Tx(tx).Replace(ctx, carID, tags)
			if err != nil {
				return fmt.Errorf("replacing option tags: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.removeFiles(ctx, obsolete)
	car.Options = tags
	return car, nil
}

// SetAvailability publishes or unpublishes the carID car. A car may
// only become available if its file and image are stored.
func (uc *UseCase) SetAvailability(
	ctx context.Context, carID uuid.UUID, available bool,
) (car *model.Car, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.carsrp.Tx(tx)
			old, err := q.GetForUpdate(ctx, carID)
			if err != nil {
				return err
			}
			old.IsAvailableForPurchase = available
			if err := old.CheckAvailability(); err != nil {
				return cerr.BadRequest(err)
			}
			car, err = q.SetAvailability(ctx, carID, available, uc.now())
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return car, nil
}

// Delete removes the carID car, its option tags, download
// verifications, and stored files. Cars which were ordered at least
// once may not be deleted, so the orders history stays resolvable.
// Files are removed after the transaction is committed.
func (uc *UseCase) Delete(ctx context.Context, carID uuid.UUID) error {
	var car *model.Car
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			var err error
			car, err = uc.carsrp.Tx(tx).GetForUpdate(ctx, carID)
			if err != nil {
				return err
			}
			n, err := uc.ordersrp.Tx(tx).CountByCar(ctx, carID)
			if err != nil {
				return fmt.Errorf("counting orders: %w", err)
			}
			if n > 0 {
				return cerr.Conflict(fmt.Errorf(
					"car has %d orders and cannot be deleted", n,
				))
			}
			_, err = uc.downloadsrp.Tx(tx).DeleteByCar(ctx, carID)
			if err != nil {
				return fmt.Errorf("deleting download links: %w", err)
			}
			if err = uc.optionsrp.Tx(tx).DeleteAll(ctx, carID); err != nil {
				return fmt.Errorf("deleting option tags: %w", err)
			}
			return uc.carsrp.Tx(tx).Delete(ctx, carID)
		})
	})
	if err != nil {
		return err
	}
	uc.removeFiles(ctx, []string{car.FilePath, car.ImagePath})
	log.Info(ctx, "car is deleted", log.Stringer("car", carID))
	return nil
}

// removeFiles removes the given stored files. Failures leave orphan
// files behind which do not affect the catalog, so they are logged.
func (uc *UseCase) removeFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := uc.store.Remove(ctx, p); err != nil {
			log.Warn(
				ctx, "failed to remove stored file",
				slog.String("path", p), log.Err("err", err),
			)
		}
	}
}
