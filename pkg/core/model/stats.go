// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "github.com/shopspring/decimal"

// Dashboard aggregates the sales, customers and catalog figures which
// are shown to administrators.
type Dashboard struct {
	Sales     SalesStats
	Customers CustomerStats
	Cars      CarStats
}

// SalesStats reports the total paid amount and number of orders.
type SalesStats struct {
	Amount decimal.Decimal
	Count  int64
}

// CustomerStats reports the number of users and their average paid
// amount. AverageValue is zero when there is no user.
type CustomerStats struct {
	Count        int64
	AverageValue decimal.Decimal
}

// CarStats reports how many cars are or are not available.
type CarStats struct {
	Active   int64
	Inactive int64
}

// CentsToAmount converts an amount in cents to its decimal value in
// the main currency unit.
func CentsToAmount(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
