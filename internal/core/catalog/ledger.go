// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"encoding/json"
	"time"
)

// # Distribution

// Distribution assigns a catalog to a distributor for a time window.
//
// At most one distribution per TAP number is open (active with no end date).
type Distribution struct {
	ID          string     `json:"id"`
	CatalogID   string     `json:"catalogId"`
	TapNumber   string     `json:"tapNumber"`
	Distributor string     `json:"distributor"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// IsOpen reports whether the distribution is the catalog's current one.
func (distribution *Distribution) IsOpen() bool {
	return distribution.IsActive && distribution.EndDate == nil
}

// # Income

// Income is one revenue event against a catalog.
type Income struct {
	ID          string      `json:"id"`
	CatalogID   string      `json:"catalogId"`
	TapNumber   string      `json:"tapNumber"`
	Amount      float64     `json:"amount"`
	Date        time.Time   `json:"date"`
	Source      string      `json:"source,omitempty"`
	State       IncomeState `json:"state"`
	PaymentDate *time.Time  `json:"paymentDate,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// MarshalJSON adds the royaltiesCalculated and paymentProcessed flags, derived
// from State, for clients that read the lifecycle as two booleans.
func (income Income) MarshalJSON() ([]byte, error) {
	type plain Income
	return json.Marshal(struct {
		plain
		RoyaltiesCalculated bool `json:"royaltiesCalculated"`
		PaymentProcessed    bool `json:"paymentProcessed"`
	}{
		plain:               plain(income),
		RoyaltiesCalculated: income.State.RoyaltiesCalculated(),
		PaymentProcessed:    income.State.PaymentProcessed(),
	})
}

// IncomeFilter selects incomes of one TAP number.
type IncomeFilter struct {
	TapNumber string
	From      *time.Time // date >= From
	To        *time.Time // date <= To
	Paid      *bool      // nil: any state
}
