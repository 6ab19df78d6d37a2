// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "github.com/taibuivan/tapledger/internal/platform/constants"

// CoreIncomeTable represents the 'core.income' table
type CoreIncomeTable struct {
	Table       string
	ID          string
	CatalogID   string
	TapNumber   string
	Amount      string
	Date        string
	Source      string
	State       string
	PaymentDate string
	CreatedAt   string
	UpdatedAt   string
}

var CoreIncome = CoreIncomeTable{
	Table:       constants.SchemaCore + ".income",
	ID:          "id",
	CatalogID:   "catalogid",
	TapNumber:   "tapnumber",
	Amount:      "amount",
	Date:        "date",
	Source:      "source",
	State:       "state",
	PaymentDate: "paymentdate",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
