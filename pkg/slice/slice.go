// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice holds the two generic transforms the domain code leans on:
projecting entity rows into payload values (Map) and narrowing reference
lists to one entity family (Filter).
*/
package slice

// Map returns transform applied to each element, preserving order. A nil input stays nil.
func Map[T, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	out := make([]U, 0, len(input))
	for _, item := range input {
		out = append(out, transform(item))
	}
	return out
}

// Filter returns the elements for which keep is true, preserving order.
// The result is nil when nothing is kept.
func Filter[T any](input []T, keep func(T) bool) []T {
	var out []T
	for _, item := range input {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
