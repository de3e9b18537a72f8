// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser provides the common serialization and
// deserialization helpers of the resources packages. Requests are
// bound and validated with the gin binding package and the errors of
// the use cases layer are serialized as JSON documents with a detail
// field (or as field-keyed messages for the validation errors).
package serdser

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/log"
)

var tagNameOnce sync.Once

// UseTagNames asks the gin validator to report the invalid fields by
// their uri, form, or json names instead of their Go field names, so
// the validation errors may be matched with the request fields.
func UseTagNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"uri", "form", "json"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

// Bind binds the request to req using the b binding and validates it.
// In case of errors, a bad request response is written and false is
// returned.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	return bindErr(c, c.ShouldBindWith(req, b))
}

func bindErr(c *gin.Context, err error) bool {
	var ive *validator.InvalidValidationError
	var ves validator.ValidationErrors
	switch {
	case err == nil:
		return true
	case errors.As(err, &ive):
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case errors.As(err, &ves):
		fe := cerr.FieldErrors{}
		for _, ferr := range ves {
			fe.Add(ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, fe)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

// SerErr writes the err error as a JSON response. The cerr.Error
// instances determine the response status code and the
// cerr.FieldErrors are written as field-keyed messages. Other errors
// are internal server errors.
func SerErr(c *gin.Context, err error) {
	var fe cerr.FieldErrors
	if errors.As(err, &fe) {
		c.JSON(http.StatusBadRequest, fe)
		return
	}
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	log.Error(c, "request failed", log.Err("err", err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": err.Error(),
	})
}

// PathUUID parses the name path parameter as a UUID. In case of
// errors, a bad request response is written and false is returned.
func PathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, cerr.FieldErrors{
			name: {"Path param " + name + " is not UUID."},
		})
		return uuid.Nil, false
	}
	return id, true
}
