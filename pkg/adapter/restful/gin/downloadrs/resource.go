// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package downloadrs realizes the download resource which streams the
// purchased car files to their customers and administrators.
package downloadrs

import (
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/log"
	"github.com/momeni/carmarket/pkg/core/usecase/downloaduc"
)

// ExpiredPath is where the invalid or expired download links are
// redirected to.
const ExpiredPath = "/cars/download-expired"

type resource struct {
	downloads *downloaduc.UseCase
}

// Register instantiates a resource adapting the download use case with
// the customer facing endpoints in the pub router group:
//  1. GET request to /cars/download/:dvid
//     in order to redeem a download link, and
//  2. GET request to /cars/download-expired
//     which explains that a download link was not acceptable.
//
// and the administrative endpoint in the admin router group:
//  3. GET request to admin/cars/:cid/download
//     in order to download a car file regardless of its links.
func Register(pub, admin *gin.RouterGroup, downloads *downloaduc.UseCase) {
	rs := &resource{downloads: downloads}
	pub.GET("cars/download/:dvid", rs.Redeem)
	pub.GET("cars/download-expired", rs.Expired)
	admin.GET("admin/cars/:cid/download", rs.AdminDownload)
}

// Redeem streams the file of a valid download link. Malformed, missing,
// and expired links are all redirected to the ExpiredPath, so they may
// not be distinguished.
func (rs *resource) Redeem(c *gin.Context) {
	d, err := rs.downloads.Redeem(c, c.Param("dvid"))
	switch {
	case cerr.IsGone(err):
		c.Redirect(http.StatusFound, ExpiredPath)
		return
	case err != nil:
		serdser.SerErr(c, err)
		return
	}
	rs.stream(c, d)
}

func (rs *resource) Expired(c *gin.Context) {
	c.JSON(http.StatusGone, gin.H{
		"detail": downloaduc.ErrInvalidLink.Error(),
	})
}

func (rs *resource) AdminDownload(c *gin.Context) {
	carID, ok := serdser.PathUUID(c, "cid")
	if !ok {
		return
	}
	d, err := rs.downloads.AdminDownload(c, carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	rs.stream(c, d)
}

// stream writes the d file as an attachment and closes it.
func (rs *resource) stream(c *gin.Context, d *downloaduc.Download) {
	defer func() {
		if err := d.Close(); err != nil {
			log.Warn(c, "failed to close the download", log.Err("err", err))
		}
	}()
	ct := mime.TypeByExtension(path.Ext(d.FileName))
	if ct == "" {
		ct = "application/octet-stream"
	}
	disposition := mime.FormatMediaType(
		"attachment", map[string]string{"filename": d.FileName},
	)
	c.DataFromReader(
		http.StatusOK, d.Size, ct, d, map[string]string{
			"Content-Disposition": disposition,
			"Cache-Control":       "no-store",
		},
	)
}
