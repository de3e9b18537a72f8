// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package log wraps log/slog with context-first helpers taking typed
// slog.Attr arguments. Attributes which are attached to a context by
// With are added to every record which is logged with that context,
// so a webhook event id or a car id shows up in all of the lines of
// one request.
package log

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

type ctxKey struct{}

// With returns a copy of ctx carrying attrs in addition to the attrs
// which were attached to ctx before.
func With(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev, _ := ctx.Value(ctxKey{}).([]slog.Attr)
	all := make([]slog.Attr, 0, len(prev)+len(attrs))
	all = append(append(all, prev...), attrs...)
	return context.WithValue(ctx, ctxKey{}, all)
}

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelDebug, msg, attrs)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelInfo, msg, attrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelWarn, msg, attrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelError, msg, attrs)
}

// emit must be called directly by the exported level functions, so
// the source location of their caller is recorded.
func emit(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	l := slog.Default()
	if !l.Enabled(ctx, level) {
		return
	}
	var pc [1]uintptr
	runtime.Callers(3, pc[:]) // Callers, emit, Debug/Info/...
	r := slog.NewRecord(time.Now(), level, msg, pc[0])
	if scoped, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(scoped...)
	}
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
