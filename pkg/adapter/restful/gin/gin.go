// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine instantiation and provides
// the middlewares which are shared by the resources packages.
package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

func Logger() HandlerFunc {
	return gin.Logger()
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// Verifier checks the administrator credentials.
type Verifier interface {
	Verify(username, password string) bool
}

// BasicAuth returns a middleware which only lets the requests with
// HTTP basic credentials which are accepted by v pass. A nil v rejects
// all requests.
func BasicAuth(realm string, v Verifier) HandlerFunc {
	challenge := `Basic realm="` + realm + `", charset="UTF-8"`
	return func(c *gin.Context) {
		if v != nil {
			user, pass, ok := c.Request.BasicAuth()
			if ok && v.Verify(user, pass) {
				c.Next()
				return
			}
		}
		c.Header("WWW-Authenticate", challenge)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"detail": "authentication is required",
		})
	}
}
