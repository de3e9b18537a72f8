// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/momeni/carmarket/pkg/core/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelInfo,
	})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := log.With(context.Background(), slog.String("event", "evt_1"))
	ctx = log.With(ctx, slog.String("payment", "pi_1"))
	log.Debug(ctx, "hidden")
	log.Warn(ctx, "receipt failed", log.Err("err", errors.New("boom")))

	var rec struct {
		Msg     string `json:"msg"`
		Event   string `json:"event"`
		Payment string `json:"payment"`
		Err     string `json:"err"`
		Source  struct {
			File string `json:"file"`
		} `json:"source"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), buf.String())
	assert.Equal(t, "receipt failed", rec.Msg)
	assert.Equal(t, "evt_1", rec.Event)
	assert.Equal(t, "pi_1", rec.Payment)
	assert.Equal(t, "boom", rec.Err)
	assert.Contains(t, rec.Source.File, "log_test.go")
	assert.Equal(t, "no-error", log.Err("err", nil).Value.String())
}
