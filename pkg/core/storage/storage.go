// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package storage defines the files storage port. Two kinds of files
// are kept: private assets which are sold, and public images which are
// linked from the catalog pages.
package storage

import (
	"context"
	"io"
)

// Upload is a file which is submitted by an administrator.
type Upload struct {
	Name        string // original file name
	ContentType string
	Size        int64
	Content     io.Reader
}

// Object is an opened stored asset. Its caller must close it.
type Object struct {
	io.ReadCloser
	Size int64
	Ext  string // file name extension, including its leading dot
}

// Store keeps uploaded files under freshly generated unique names.
// Paths which are returned by SaveAsset and SaveImage may be passed to
// Open and Remove methods later.
type Store interface {
	// SaveAsset stores u as a private asset and returns its path.
	SaveAsset(ctx context.Context, u *Upload) (string, error)

	// SaveImage stores u as a public image and returns its URL path.
	SaveImage(ctx context.Context, u *Upload) (string, error)

	// Open opens a stored asset. A missing asset is reported by an
	// error wrapping fs.ErrNotExist.
	Open(ctx context.Context, path string) (*Object, error)

	// Remove deletes an asset or image. Removing a missing file is
	// not an error.
	Remove(ctx context.Context, path string) error
}
