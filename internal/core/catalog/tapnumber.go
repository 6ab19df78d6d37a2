// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// DefaultTapSuffix is the territory suffix of issued TAP numbers.
const DefaultTapSuffix = "MY"

// maxTapAttempts bounds how often an auto-issued TAP number is re-derived
// after losing a uniqueness race.
const maxTapAttempts = 3

// tapPattern matches TAP-YYYY-NNNN-XX. Sequences past 9999 simply grow wider.
var tapPattern = regexp.MustCompile(`^TAP-(\d{4})-(\d{4,})-([A-Z]+)$`)

// ErrMalformedTapNumber is returned by [ParseTapNumber] for non-conforming input.
var ErrMalformedTapNumber = errors.New("catalog: malformed TAP number")

// TapNumber is the parsed form of a catalog identifier.
type TapNumber struct {
	Year     int
	Sequence int
	Suffix   string
}

// String renders the identifier with a zero-padded four digit sequence.
func (tap TapNumber) String() string {
	return fmt.Sprintf("TAP-%04d-%04d-%s", tap.Year, tap.Sequence, tap.Suffix)
}

// ParseTapNumber splits a TAP number into its parts.
func ParseTapNumber(raw string) (TapNumber, error) {
	match := tapPattern.FindStringSubmatch(raw)
	if match == nil {
		return TapNumber{}, fmt.Errorf("%w: %q", ErrMalformedTapNumber, raw)
	}

	year, _ := strconv.Atoi(match[1])
	sequence, err := strconv.Atoi(match[2])
	if err != nil {
		return TapNumber{}, fmt.Errorf("%w: %q", ErrMalformedTapNumber, raw)
	}

	return TapNumber{Year: year, Sequence: sequence, Suffix: match[3]}, nil
}

// NextTapNumber returns the identifier following the highest sequence issued
// in year. A year with no entries starts at 0001.
func NextTapNumber(year, maxSequence int, suffix string) TapNumber {
	return TapNumber{Year: year, Sequence: maxSequence + 1, Suffix: suffix}
}

// TapYearPrefix is the "TAP-YYYY-" prefix shared by all entries of a year.
func TapYearPrefix(year int) string {
	return fmt.Sprintf("TAP-%04d-", year)
}
