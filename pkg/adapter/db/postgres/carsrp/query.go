// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gCar struct {
	ID                       uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name                     string
	Brand                    string
	CarModel                 string `gorm:"column:model"`
	Year                     int
	Mileage                  int
	FuelType                 string
	GearboxType              string
	BodyType                 string
	Drivetrain               string
	EngineDisplacement       int
	HorsePower               int
	Color                    string
	DoorsAmount              int
	SeatsAmount              int
	VIN                      string `gorm:"column:vin"`
	CountryOfOrigin          string
	Version                  string
	Generation               string
	ColorType                string
	CO2Emission              string `gorm:"column:co2_emission"`
	CityFuelConsumption      string
	OutOfCityFuelConsumption string
	FirstRegistrationDate    string
	DriverPlateNumber        string
	IsFirstOwner             bool
	ServicedInASO            bool `gorm:"column:serviced_in_aso"`
	HasRegistrationNumber    bool
	RegisteredInPoland       bool
	IsNew                    bool
	CanNegotiate             bool
	Description              string
	PriceInCents             int64
	FilePath                 string
	ImagePath                string
	IsAvailableForPurchase   bool
	CreatedAt                time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt                time.Time `gorm:"autoUpdateTime:false"`
}

func (gc *gCar) TableName() string {
	return "cars"
}

func (gc *gCar) Model() *model.Car {
	return &model.Car{
		ID: gc.ID,
		CarSpec: model.CarSpec{
			Name:                     gc.Name,
			Brand:                    gc.Brand,
			Model:                    gc.CarModel,
			Year:                     gc.Year,
			Mileage:                  gc.Mileage,
			FuelType:                 gc.FuelType,
			GearboxType:              gc.GearboxType,
			BodyType:                 gc.BodyType,
			Drivetrain:               gc.Drivetrain,
			EngineDisplacement:       gc.EngineDisplacement,
			HorsePower:               gc.HorsePower,
			Color:                    gc.Color,
			DoorsAmount:              gc.DoorsAmount,
			SeatsAmount:              gc.SeatsAmount,
			VIN:                      gc.VIN,
			CountryOfOrigin:          gc.CountryOfOrigin,
			Version:                  gc.Version,
			Generation:               gc.Generation,
			ColorType:                gc.ColorType,
			CO2Emission:              gc.CO2Emission,
			CityFuelConsumption:      gc.CityFuelConsumption,
			OutOfCityFuelConsumption: gc.OutOfCityFuelConsumption,
			FirstRegistrationDate:    gc.FirstRegistrationDate,
			DriverPlateNumber:        gc.DriverPlateNumber,
			IsFirstOwner:             gc.IsFirstOwner,
			ServicedInASO:            gc.ServicedInASO,
			HasRegistrationNumber:    gc.HasRegistrationNumber,
			RegisteredInPoland:       gc.RegisteredInPoland,
			IsNew:                    gc.IsNew,
			CanNegotiate:             gc.CanNegotiate,
			Description:              gc.Description,
			PriceInCents:             gc.PriceInCents,
		},
		FilePath:               gc.FilePath,
		ImagePath:              gc.ImagePath,
		IsAvailableForPurchase: gc.IsAvailableForPurchase,
		CreatedAt:              gc.CreatedAt.UTC(),
		UpdatedAt:              gc.UpdatedAt.UTC(),
	}
}

func fromModel(car *model.Car) *gCar {
	s := &car.CarSpec
	return &gCar{
		ID:                       car.ID,
		Name:                     s.Name,
		Brand:                    s.Brand,
		CarModel:                 s.Model,
		Year:                     s.Year,
		Mileage:                  s.Mileage,
		FuelType:                 s.FuelType,
		GearboxType:              s.GearboxType,
		BodyType:                 s.BodyType,
		Drivetrain:               s.Drivetrain,
		EngineDisplacement:       s.EngineDisplacement,
		HorsePower:               s.HorsePower,
		Color:                    s.Color,
		DoorsAmount:              s.DoorsAmount,
		SeatsAmount:              s.SeatsAmount,
		VIN:                      s.VIN,
		CountryOfOrigin:          s.CountryOfOrigin,
		Version:                  s.Version,
		Generation:               s.Generation,
		ColorType:                s.ColorType,
		CO2Emission:              s.CO2Emission,
		CityFuelConsumption:      s.CityFuelConsumption,
		OutOfCityFuelConsumption: s.OutOfCityFuelConsumption,
		FirstRegistrationDate:    s.FirstRegistrationDate,
		DriverPlateNumber:        s.DriverPlateNumber,
		IsFirstOwner:             s.IsFirstOwner,
		ServicedInASO:            s.ServicedInASO,
		HasRegistrationNumber:    s.HasRegistrationNumber,
		RegisteredInPoland:       s.RegisteredInPoland,
		IsNew:                    s.IsNew,
		CanNegotiate:             s.CanNegotiate,
		Description:              s.Description,
		PriceInCents:             s.PriceInCents,
		FilePath:                 car.FilePath,
		ImagePath:                car.ImagePath,
		IsAvailableForPurchase:   car.IsAvailableForPurchase,
		CreatedAt:                car.CreatedAt,
		UpdatedAt:                car.UpdatedAt,
	}
}

// specColumns are overwritten by Update, along with the files paths.
var specColumns = []string{
	"name", "brand", "model", "year", "mileage", "fuel_type",
	"gearbox_type", "body_type", "drivetrain", "engine_displacement",
	"horse_power", "color", "doors_amount", "seats_amount", "vin",
	"country_of_origin", "version", "generation", "color_type",
	"co2_emission", "city_fuel_consumption",
	"out_of_city_fuel_consumption", "first_registration_date",
	"driver_plate_number", "is_first_owner", "serviced_in_aso",
	"has_registration_number", "registered_in_poland", "is_new",
	"can_negotiate", "description", "price_in_cents", "file_path",
	"image_path", "updated_at",
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (*model.Car, error) {
	return get(q.GORM(ctx), carID)
}

func GetForUpdate(ctx context.Context, tx *postgres.Tx, carID uuid.UUID) (*model.Car, error) {
	return get(
		tx.GORM(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		carID,
	)
}

func get(gdb *gorm.DB, carID uuid.UUID) (*model.Car, error) {
	var gc []gCar
	if err := gdb.Where("id = ?", carID).Limit(2).Find(&gc).Error; err != nil {
		return nil, postgres.Err(err)
	}
	if err := postgres.One(len(gc)); err != nil {
		return nil, err
	}
	return gc[0].Model(), nil
}

func List[Q postgres.Queryer](ctx context.Context, q Q, f model.CarFilter) ([]model.Car, error) {
	gdb := q.GORM(ctx).Model(&gCar{})
	if f.AvailableOnly {
		gdb = gdb.Where("cars.is_available_for_purchase = ?", true)
	}
	switch f.OrderBy {
	case model.CarOrderPopular:
		gdb = gdb.Select("cars.*").Joins(
			"LEFT JOIN orders ON orders.car_id = cars.id",
		).Group("cars.id").Order(
			"COUNT(orders.id) DESC",
		).Order("cars.created_at DESC")
	case model.CarOrderName:
		gdb = gdb.Order("cars.name ASC").Order("cars.created_at DESC")
	default:
		gdb = gdb.Order("cars.created_at DESC")
	}
	gdb = gdb.Order("cars.id")
	if f.Limit > 0 {
		gdb = gdb.Limit(f.Limit)
	}
	var gc []gCar
	if err := gdb.Find(&gc).Error; err != nil {
		return nil, postgres.Err(err)
	}
	cars := make([]model.Car, 0, len(gc))
	for i := range gc {
		cars = append(cars, *gc[i].Model())
	}
	return cars, nil
}

// ListSummaries lists all cars by name, each with its orders count.
func ListSummaries[Q postgres.Queryer](ctx context.Context, q Q) ([]model.CarSummary, error) {
	var gc []gCar
	err := q.GORM(ctx).Order("name ASC").Order("id").Find(&gc).Error
	if err != nil {
		return nil, postgres.Err(err)
	}
	var counts []struct {
		CarID uuid.UUID
		N     int64
	}
	err = q.GORM(ctx).Table("orders").Select(
		"car_id, COUNT(*) AS n",
	).Group("car_id").Scan(&counts).Error
	if err != nil {
		return nil, postgres.Err(err)
	}
	byCar := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byCar[c.CarID] = c.N
	}
	cs := make([]model.CarSummary, 0, len(gc))
	for i := range gc {
		cs = append(cs, model.CarSummary{
			Car:         *gc[i].Model(),
			OrdersCount: byCar[gc[i].ID],
		})
	}
	return cs, nil
}

func CountByAvailability[Q postgres.Queryer](ctx context.Context, q Q) (active, inactive int64, err error) {
	var counts []struct {
		IsAvailableForPurchase bool
		N                      int64
	}
	err = q.GORM(ctx).Model(&gCar{}).Select(
		"is_available_for_purchase, COUNT(*) AS n",
	).Group("is_available_for_purchase").Scan(&counts).Error
	if err != nil {
		return 0, 0, postgres.Err(err)
	}
	for _, c := range counts {
		if c.IsAvailableForPurchase {
			active = c.N
		} else {
			inactive = c.N
		}
	}
	return active, inactive, nil
}

func Create(ctx context.Context, tx *postgres.Tx, car *model.Car) error {
	if err := tx.GORM(ctx).Create(fromModel(car)).Error; err != nil {
		return postgres.Err(err)
	}
	return nil
}

func Update(ctx context.Context, tx *postgres.Tx, car *model.Car) (*model.Car, error) {
	gdb := tx.GORM(ctx).Model(&gCar{}).Where("id = ?", car.ID).Select(
		specColumns,
	).Updates(fromModel(car))
	if err := gdb.Error; err != nil {
		return nil, postgres.Err(err)
	}
	if err := postgres.One(int(gdb.RowsAffected)); err != nil {
		return nil, err
	}
	return Get(ctx, tx, car.ID)
}

func SetAvailability(ctx context.Context, tx *postgres.Tx, carID uuid.UUID, available bool, now time.Time) (*model.Car, error) {
	gdb := tx.GORM(ctx).Model(&gCar{}).Where("id = ?", carID).Updates(
		map[string]any{
			"is_available_for_purchase": available,
			"updated_at":                now.UTC(),
		},
	)
	if err := gdb.Error; err != nil {
		return nil, postgres.Err(err)
	}
	if err := postgres.One(int(gdb.RowsAffected)); err != nil {
		return nil, err
	}
	return Get(ctx, tx, carID)
}

func Delete(ctx context.Context, tx *postgres.Tx, carID uuid.UUID) error {
	gdb := tx.GORM(ctx).Where("id = ?", carID).Delete(&gCar{})
	if err := gdb.Error; err != nil {
		return postgres.Err(err)
	}
	return postgres.One(int(gdb.RowsAffected))
}
