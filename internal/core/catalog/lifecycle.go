// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"fmt"

	"github.com/taibuivan/tapledger/internal/platform/apperr"
)

// IncomeState is the position of an income in its settlement lifecycle.
//
//	recorded --calculate royalties--> calculated --process payment--> paid
//
// Every move is forward-only and happens at most once.
type IncomeState string

const (
	IncomeRecorded   IncomeState = "recorded"
	IncomeCalculated IncomeState = "calculated"
	IncomePaid       IncomeState = "paid"
)

// IsValid reports whether s is a recognised [IncomeState] value.
func (s IncomeState) IsValid() bool {
	switch s {
	case IncomeRecorded, IncomeCalculated, IncomePaid:
		return true
	}
	return false
}

// RoyaltiesCalculated reports whether the royalty breakdown was committed.
func (s IncomeState) RoyaltiesCalculated() bool {
	return s == IncomeCalculated || s == IncomePaid
}

// PaymentProcessed reports whether the income was paid out.
func (s IncomeState) PaymentProcessed() bool {
	return s == IncomePaid
}

// CheckTransition returns nil when moving from s to target is allowed, or the
// error a caller asking for that move must see.
//
// This is the only place lifecycle legality is decided.
func (s IncomeState) CheckTransition(target IncomeState) error {
	switch target {
	case IncomeCalculated:
		if s == IncomeRecorded {
			return nil
		}
		return apperr.Conflict("Royalties for this income have already been calculated")

	case IncomePaid:
		switch s {
		case IncomeCalculated:
			return nil
		case IncomeRecorded:
			return apperr.ValidationError("Royalties must be calculated before processing payment")
		default:
			return apperr.Conflict("Payment for this income has already been processed")
		}
	}

	return apperr.Conflict(fmt.Sprintf("Income cannot move from %s to %s", s, target))
}
