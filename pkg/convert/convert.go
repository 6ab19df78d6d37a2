// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses loosely typed query parameters.

Conversions never fail: malformed input yields the caller's default. Use
strconv directly where a bad value must be reported to the client.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD parses str as an int, returning def when it is empty or malformed.
func ToIntD(str string, def int) int {
	value, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return def
	}
	return value
}
