// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer bridges optional columns and optional JSON fields.

Nullable database columns scan into pointers, and submission payloads use
pointers for fields that may be omitted (type option, annotation,
disambiguation). To and Val convert between the two shapes.
*/
package pointer

// To returns a pointer to a copy of v, e.g. pointer.To(4) for a type option id.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, or returns the zero value of T when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
