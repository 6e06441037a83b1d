// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Listings are addressed by an offset window: "from" is the number of rows to
// skip and "size" the number of rows to return. The resulting metadata is
// delivered in the API response envelope.
package pagination

import (
	"net/http"

	"github.com/taibuivan/libris/pkg/convert"
)

const (
	// DefaultSize is the number of items per page if not specified.
	DefaultSize = 20
	// MaxSize is the upper bound for items per page to prevent system abuse.
	MaxSize = 100
)

// Window holds the parsed offset and page size from a request's query string.
type Window struct {
	From int
	Size int
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	From int `json:"from"`
	Size int `json:"size"`
	// Next is the offset of the following page, or nil when this page came back short.
	Next *int `json:"next"`
}

// NewMeta constructs pagination metadata for a response holding count items.
func NewMeta(window Window, count int) Meta {
	meta := Meta{From: window.From, Size: window.Size}
	if count >= window.Size && window.Size > 0 {
		next := window.From + window.Size
		meta.Next = &next
	}
	return meta
}

// FromRequest parses "from" and "size" query parameters from an HTTP request.
//
// # Clamping
//
// A negative or unparsable offset becomes 0. A size outside 1..[MaxSize]
// becomes [DefaultSize].
func FromRequest(r *http.Request) Window {
	query := r.URL.Query()
	from := convert.ToIntD(query.Get("from"), 0)
	size := convert.ToIntD(query.Get("size"), DefaultSize)

	return Clamp(from, size)
}

// Clamp normalises an arbitrary offset and size into a valid [Window].
func Clamp(from, size int) Window {
	if from < 0 {
		from = 0
	}

	if size < 1 || size > MaxSize {
		size = DefaultSize
	}

	return Window{From: from, Size: size}
}
