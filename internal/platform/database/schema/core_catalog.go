// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "github.com/taibuivan/tapledger/internal/platform/constants"

// CoreCatalogTable represents the 'core.catalog' table
type CoreCatalogTable struct {
	Table             string
	ID                string
	TapNumber         string
	InvCode           string
	IPICode           string
	ISWCCode          string
	ISRCCode          string
	Type              string
	VersionType       string
	ParentTapNumber   string
	Tagging           string
	SongType          string
	Title             string
	AlternateTitle    string
	Performer         string
	Genre             string
	Remarks           string
	YoutubeLink       string
	CountryCover      string
	SelectedCountries string
	Status            string
	DateIn            string
	DateOut           string
	AudioFilePath     string
	TotalRevenue      string
	CreatedBy         string
	CreatedAt         string
	UpdatedAt         string
}

var CoreCatalog = CoreCatalogTable{
	Table:             constants.SchemaCore + ".catalog",
	ID:                "id",
	TapNumber:         "tapnumber",
	InvCode:           "invcode",
	IPICode:           "ipicode",
	ISWCCode:          "iswccode",
	ISRCCode:          "isrccode",
	Type:              "type",
	VersionType:       "versiontype",
	ParentTapNumber:   "parenttapnumber",
	Tagging:           "tagging",
	SongType:          "songtype",
	Title:             "title",
	AlternateTitle:    "alternatetitle",
	Performer:         "performer",
	Genre:             "genre",
	Remarks:           "remarks",
	YoutubeLink:       "youtubelink",
	CountryCover:      "countrycover",
	SelectedCountries: "selectedcountries",
	Status:            "status",
	DateIn:            "datein",
	DateOut:           "dateout",
	AudioFilePath:     "audiofilepath",
	TotalRevenue:      "totalrevenue",
	CreatedBy:         "createdby",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}
