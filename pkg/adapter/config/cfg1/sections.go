// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/momeni/carmarket/pkg/adapter/config/settings"
	"github.com/momeni/carmarket/pkg/adapter/hash/bcrypt"
	"github.com/momeni/carmarket/pkg/adapter/mail/resend"
	"github.com/momeni/carmarket/pkg/adapter/payment/stripe"
	"github.com/momeni/carmarket/pkg/adapter/restful/gin"
	"github.com/momeni/carmarket/pkg/adapter/storage/disk"
	resendgo "github.com/resend/resend-go/v2"
	stripego "github.com/stripe/stripe-go/v76"
)

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them by their default values.
type Gin struct {
	Logger   *bool // Whether to register the gin.Logger() middleware
	Recovery *bool // Whether to register the gin.Recovery() middleware
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. Uploads which are larger than maxMemory bytes are
// buffered in temporary files.
func (g Gin) NewEngine(maxMemory int64) *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if g.Logger != nil && *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if g.Recovery != nil && *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	e := gin.New(middlewares...)
	e.MaxMultipartMemory = maxMemory
	return e
}

// Logging contains the structured logging settings.
type Logging struct {
	// Level is one of debug, info, warn, or error. Default is info.
	Level string `yaml:"level,omitempty"`

	// Format is either text or json. Default is text.
	Format string `yaml:"format,omitempty"`

	level slog.Level `yaml:"-"`
}

// ValidateAndNormalize parses the logging level and format.
func (l *Logging) ValidateAndNormalize() error {
	if l.Level == "" {
		l.Level = "info"
	}
	if err := l.level.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	switch l.Format = strings.ToLower(l.Format); l.Format {
	case "":
		l.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("unsupported format: %q", l.Format)
	}
	return nil
}

// NewHandler creates a slog.Handler which writes to w, based on the
// `l` settings.
func (l Logging) NewHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: l.level}
	if l.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Storage contains the uploaded files settings.
type Storage struct {
	AssetsDir string `yaml:"assets-dir"` // private files of the cars
	ImagesDir string `yaml:"images-dir"` // publicly served images

	// ImageMaxWidth is the maximum width of stored images in pixels.
	// Wider images are scaled down. Zero disables the scaling.
	ImageMaxWidth *uint `yaml:"image-max-width,omitempty"`

	// MaxUploadSize is the maximum size of each uploaded file in bytes.
	MaxUploadSize *int64 `yaml:"max-upload-size,omitempty"`
}

// ValidateAndNormalize fills the missing storage settings by their
// default values.
func (s *Storage) ValidateAndNormalize() error {
	if s.AssetsDir == "" {
		s.AssetsDir = "data/assets"
	}
	if s.ImagesDir == "" {
		s.ImagesDir = "data/images"
	}
	if s.ImagesDir == s.AssetsDir {
		return errors.New("assets and images dirs must be different")
	}
	if s.ImageMaxWidth == nil {
		w := uint(1200)
		s.ImageMaxWidth = &w
	}
	if s.MaxUploadSize == nil {
		size := int64(64 << 20)
		s.MaxUploadSize = &size
	}
	if *s.MaxUploadSize <= 0 {
		return fmt.Errorf("invalid max-upload-size: %d", *s.MaxUploadSize)
	}
	return nil
}

// NewStore creates a disk store based on the `s` settings.
func (s Storage) NewStore() (*disk.Store, error) {
	var w uint
	if s.ImageMaxWidth != nil {
		w = *s.ImageMaxWidth
	}
	return disk.New(s.AssetsDir, s.ImagesDir, w)
}

// Stripe contains the payment processor settings. The secrets are
// normally passed as STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET
// environment variables.
type Stripe struct {
	SecretKey     string `yaml:"secret-key,omitempty"`
	WebhookSecret string `yaml:"webhook-secret,omitempty"`

	// APIURL optionally replaces the Stripe API endpoint, e.g., by a
	// stripe-mock server during the development.
	APIURL string `yaml:"api-url,omitempty"`
}

// NewGateway creates a Stripe payment gateway.
func (s Stripe) NewGateway() (*stripe.Gateway, error) {
	var backends *stripego.Backends
	if s.APIURL != "" {
		if _, err := url.ParseRequestURI(s.APIURL); err != nil {
			return nil, fmt.Errorf("invalid stripe api-url: %w", err)
		}
		backends = &stripego.Backends{
			API: stripego.GetBackendWithConfig(
				stripego.APIBackend,
				&stripego.BackendConfig{URL: stripego.String(s.APIURL)},
			),
		}
	}
	return stripe.New(s.SecretKey, s.WebhookSecret, backends)
}

// Resend contains the transactional email settings. The secrets are
// normally passed as RESEND_API_KEY and SENDER_EMAIL environment
// variables.
type Resend struct {
	APIKey string `yaml:"api-key,omitempty"`
	Sender string `yaml:"sender,omitempty"` // like shop@example.com

	// BaseURL optionally replaces the Resend API endpoint.
	BaseURL string `yaml:"base-url,omitempty"`
}

// NewSender creates a receipt sender which uses the Resend API.
func (r Resend) NewSender() (*resend.Sender, error) {
	if r.APIKey == "" {
		return nil, errors.New("resend api key is empty")
	}
	c := resendgo.NewClient(r.APIKey)
	if r.BaseURL != "" {
		u, err := url.Parse(r.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid resend base-url: %w", err)
		}
		c.BaseURL = u
	}
	return resend.New(c, r.Sender)
}

// Admin contains the administrator credentials. They are normally
// passed as ADMIN_USERNAME and ADMIN_PASSWORD_HASH environment
// variables. The hash may be computed by the `admin hash-password`
// command.
type Admin struct {
	Username     string `yaml:"username,omitempty"`
	PasswordHash string `yaml:"password-hash,omitempty"`
}

// Credentials returns the administrator credentials or nil if they
// are not configured, disabling the administrative APIs.
func (a Admin) Credentials() (*bcrypt.Credentials, error) {
	if a.Username == "" && a.PasswordHash == "" {
		return nil, nil
	}
	return bcrypt.NewCredentials(a.Username, a.PasswordHash)
}

// durationRange verifies that d is within the [minb, maxb] range.
func durationRange(
	name string, d **settings.Duration, minb, maxb *settings.Duration,
) error {
	if err := settings.VerifyRange(d, minb, maxb); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}
