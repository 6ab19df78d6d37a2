// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "github.com/taibuivan/tapledger/internal/platform/constants"

// CoreDistributionTable represents the 'core.distribution' table
type CoreDistributionTable struct {
	Table       string
	ID          string
	CatalogID   string
	TapNumber   string
	Distributor string
	StartDate   string
	EndDate     string
	IsActive    string
	CreatedAt   string
}

var CoreDistribution = CoreDistributionTable{
	Table:       constants.SchemaCore + ".distribution",
	ID:          "id",
	CatalogID:   "catalogid",
	TapNumber:   "tapnumber",
	Distributor: "distributor",
	StartDate:   "startdate",
	EndDate:     "enddate",
	IsActive:    "isactive",
	CreatedAt:   "createdat",
}
