// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package resend implements the mail.Sender interface using the Resend
// email API. Receipts are rendered from embedded HTML and text
// templates.
package resend

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/mail"
	texttemplate "text/template"
	"time"

	coremail "github.com/momeni/carmarket/pkg/core/mail"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/resend/resend-go/v2"
)

// Subject of the receipt emails.
const Subject = "Order confirmation"

//go:embed templates
var templatesFS embed.FS

var (
	receiptHTML = htmltemplate.Must(htmltemplate.ParseFS(
		templatesFS, "templates/receipt.html.tmpl",
	))
	receiptText = texttemplate.Must(texttemplate.ParseFS(
		templatesFS, "templates/receipt.txt.tmpl",
	))
)

// Sender sends the receipt emails through a Resend client.
type Sender struct {
	client *resend.Client
	from   string
}

// New creates a Sender which uses client for sending emails from the
// sender address. The sender may contain a display
// name, otherwise, "Support" is used.
func New(client *resend.Client, sender string) (*Sender, error) {
	if client == nil {
		return nil, errors.New("resend client is nil")
	}
	addr, err := mail.ParseAddress(sender)
	if err != nil {
		return nil, fmt.Errorf("parsing sender email: %w", err)
	}
	if addr.Name == "" {
		addr.Name = "Support"
	}
	return &Sender{client: client, from: addr.String()}, nil
}

type receiptData struct {
	Car         *model.Car
	OrderID     string
	Date        string
	Price       string
	ExpiresAt   string
	DownloadURL string
	ImageURL    string
}

// SendReceipt renders and sends the r receipt.
func (s *Sender) SendReceipt(ctx context.Context, r *coremail.Receipt) error {
	data := receiptData{
		Car:         r.Car,
		OrderID:     r.Order.ID.String(),
		Date:        r.Order.CreatedAt.UTC().Format(time.DateOnly),
		Price:       model.CentsToAmount(r.Order.PricePaidInCents).StringFixed(2),
		ExpiresAt:   r.ExpiresAt.UTC().Format("2006-01-02 15:04 MST"),
		DownloadURL: r.DownloadURL,
		ImageURL:    r.ImageURL,
	}
	var html, text bytes.Buffer
	if err := receiptHTML.Execute(&html, data); err != nil {
		return fmt.Errorf("rendering html receipt: %w", err)
	}
	if err := receiptText.Execute(&text, data); err != nil {
		return fmt.Errorf("rendering text receipt: %w", err)
	}
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{r.To},
		Subject: Subject,
		Html:    html.String(),
		Text:    text.String(),
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
