// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses query-string numbers leniently.

Handlers use it for optional parameters such as pagination offsets or the
statistics window, where a malformed value should fall back to a default
instead of failing the request.
*/
package convert

import (
	"strconv"
)

// ToIntD parses str as a base-10 int, returning def when str is empty or malformed.
func ToIntD(str string, def int) int {
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	return def
}
