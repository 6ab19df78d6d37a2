// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "github.com/taibuivan/tapledger/internal/platform/constants"

// CoreContributorTable represents the 'core.contributor' table
type CoreContributorTable struct {
	Table                  string
	ID                     string
	CatalogID              string
	TapNumber              string
	Name                   string
	Role                   string
	RoyaltyPercentage      string
	Manager                string
	PublisherType          string
	PublisherName          string
	PublisherPercentage    string
	SubPublisherName       string
	SubPublisherPercentage string
	CreatedAt              string
	UpdatedAt              string
}

var CoreContributor = CoreContributorTable{
	Table:                  constants.SchemaCore + ".contributor",
	ID:                     "id",
	CatalogID:              "catalogid",
	TapNumber:              "tapnumber",
	Name:                   "name",
	Role:                   "role",
	RoyaltyPercentage:      "royaltypercentage",
	Manager:                "manager",
	PublisherType:          "publishertype",
	PublisherName:          "publishername",
	PublisherPercentage:    "publisherpercentage",
	SubPublisherName:       "subpublishername",
	SubPublisherPercentage: "subpublisherpercentage",
	CreatedAt:              "createdat",
	UpdatedAt:              "updatedat",
}
