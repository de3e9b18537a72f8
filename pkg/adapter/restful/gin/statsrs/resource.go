// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package statsrs realizes the administrative dashboard resource.
package statsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/usecase/statsuc"
)

type resource struct {
	stats *statsuc.UseCase
}

// Register instantiates a resource adapting the stats use case with
// the GET admin/dashboard endpoint.
func Register(r *gin.RouterGroup, stats *statsuc.UseCase) {
	rs := &resource{stats: stats}
	r.GET("admin/dashboard", rs.Dashboard)
}

type dashboardResp struct {
	Sales struct {
		Amount string `json:"amount"`
		Count  int64  `json:"count"`
	} `json:"sales"`
	Customers struct {
		Count        int64  `json:"count"`
		AverageValue string `json:"average_value"`
	} `json:"customers"`
	Cars struct {
		Active   int64 `json:"active"`
		Inactive int64 `json:"inactive"`
	} `json:"cars"`
}

func serDashboard(d *model.Dashboard) *dashboardResp {
	resp := &dashboardResp{}
	resp.Sales.Amount = d.Sales.Amount.StringFixed(2)
	resp.Sales.Count = d.Sales.Count
	resp.Customers.Count = d.Customers.Count
	resp.Customers.AverageValue = d.Customers.AverageValue.StringFixed(2)
	resp.Cars.Active = d.Cars.Active
	resp.Cars.Inactive = d.Cars.Inactive
	return resp
}

func (rs *resource) Dashboard(c *gin.Context) {
	d, err := rs.stats.Dashboard(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serDashboard(d))
}
