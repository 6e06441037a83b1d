// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/libris/internal/platform/ctxkey"
	"github.com/taibuivan/libris/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Editor Identity

// WithEditor returns a new context carrying the authenticated editor's claims.
//
// The request logger already in ctx is tagged with the editor id and name, so
// every later log line of the request names the editor.
func WithEditor(ctx context.Context, claims *sec.AuthClaims) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeyEditor, claims)
	if claims == nil {
		return ctx
	}

	logger := GetLogger(ctx).With(
		slog.String("editor_id", claims.UserID),
		slog.String("editor_name", claims.Username),
	)
	return WithLogger(ctx, logger)
}

// GetEditor returns the authenticated editor's claims, or nil for anonymous requests.
func GetEditor(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyEditor).(*sec.AuthClaims)
	return claims
}
