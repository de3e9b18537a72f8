// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package disk implements the storage.Store interface on the local
// file system. Assets are kept in a private directory, while images
// are kept in a directory which is served under the /images/ URL path.
// Uploaded images which are wider than a configured width are scaled
// down before being stored.
package disk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/carmarket/pkg/core/storage"
	"github.com/nfnt/resize"
)

// ImagesURLPath is the URL path prefix of the stored images.
const ImagesURLPath = "/images/"

// Store keeps assets and images in two directories.
type Store struct {
	assetsDir     string
	imagesDir     string
	imageMaxWidth uint
}

// New creates the assetsDir and imagesDir directories (if they are
// missing) and returns a Store which keeps files in them. Images which
// are wider than imageMaxWidth pixels are scaled down, preserving
// their aspect ratio. A zero imageMaxWidth disables the scaling.
func New(assetsDir, imagesDir string, imageMaxWidth uint) (*Store, error) {
	for _, d := range []string{assetsDir, imagesDir} {
		if err := os.MkdirAll(d, 0o750); err != nil {
			return nil, fmt.Errorf("creating %q: %w", d, err)
		}
	}
	return &Store{
		assetsDir:     assetsDir,
		imagesDir:     imagesDir,
		imageMaxWidth: imageMaxWidth,
	}, nil
}

// ImagesDir returns the directory which should be served under the
// ImagesURLPath.
func (s *Store) ImagesDir() string {
	return s.imagesDir
}

// uniqueName prefixes the sanitized base name of the uploaded file
// by a random uuid.
func uniqueName(name string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, path.Base(strings.ReplaceAll(name, `\`, "/")))
	if base == "" || base == "." || base == "_" {
		base = "file"
	}
	return uuid.NewString() + "-" + base
}

// SaveAsset stores u in the assets directory and returns its name.
func (s *Store) SaveAsset(ctx context.Context, u *storage.Upload) (string, error) {
	name := uniqueName(u.Name)
	if err := writeFile(filepath.Join(s.assetsDir, name), u.Content); err != nil {
		return "", err
	}
	return name, nil
}

// SaveImage stores u in the images directory and returns its URL path.
// Images in a format which can not be decoded (e.g., SVG) are stored
// without scaling.
func (s *Store) SaveImage(ctx context.Context, u *storage.Upload) (string, error) {
	b, err := io.ReadAll(u.Content)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	b, err = s.downscale(b)
	if err != nil {
		return "", err
	}
	name := uniqueName(u.Name)
	err = writeFile(filepath.Join(s.imagesDir, name), bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	return ImagesURLPath + name, nil
}

func (s *Store) downscale(b []byte) ([]byte, error) {
	if s.imageMaxWidth == 0 {
		return b, nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil || uint(cfg.Width) <= s.imageMaxWidth {
		return b, nil
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decoding %s image: %w", format, err)
	}
	img = resize.Resize(s.imageMaxWidth, 0, img, resize.Lanczos3)
	var out bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&out, img, &jpeg.Options{Quality: 80})
	case "gif":
		err = gif.Encode(&out, img, nil)
	default:
		err = png.Encode(&out, img)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s image: %w", format, err)
	}
	return out.Bytes(), nil
}

func writeFile(p string, r io.Reader) (err error) {
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if err2 := f.Close(); err2 != nil && err == nil {
			err = fmt.Errorf("closing file: %w", err2)
		}
		if err != nil {
			_ = os.Remove(p)
		}
	}()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

// resolve maps a stored path to its file system path. Paths which do
// not belong to this store are reported as not existing.
func (s *Store) resolve(p string) (string, error) {
	dir := s.assetsDir
	if name, ok := strings.CutPrefix(p, ImagesURLPath); ok {
		dir, p = s.imagesDir, name
	}
	if p == "" || p != filepath.Base(p) || p == "." || p == ".." {
		return "", fmt.Errorf("invalid path %q: %w", p, fs.ErrNotExist)
	}
	return filepath.Join(dir, p), nil
}

// Open opens the p asset.
func (s *Store) Open(ctx context.Context, p string) (*storage.Object, error) {
	fp, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("opening asset: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}
	if !st.Mode().IsRegular() {
		_ = f.Close()
		return nil, fmt.Errorf("%q is not a file: %w", p, fs.ErrNotExist)
	}
	return &storage.Object{
		ReadCloser: f,
		Size:       st.Size(),
		Ext:        filepath.Ext(p),
	}, nil
}

// Remove deletes the p asset or image.
func (s *Store) Remove(ctx context.Context, p string) error {
	fp, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(fp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %q: %w", p, err)
	}
	return nil
}
