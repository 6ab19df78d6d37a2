// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog is the royalty ledger for TAP catalog entries.

It issues TAP numbers, keeps contributor shares within their per-role budget,
keeps at most one distribution open per catalog, records income and walks each
income through its royalty and payment lifecycle.

Core Responsibility:

  - Catalog: Identity and metadata of a musical work or derivative version.
  - Allocation: Contributor shares, 100% budget per (TAP number, role).
  - Ledger: Distributions, income events, royalty breakdowns and payments.
  - Reporting: Full-detail aggregates, tagging and status statistics.

Children (contributors, distributions, incomes) always carry their parent's
TAP number. The parent row is the source of truth and every write checks the
two agree.
*/
package catalog

import "time"

// # Domain Enums

// Type distinguishes original works from adaptations.
type Type string

const (
	TypeOriginal   Type = "original"
	TypeAdaptation Type = "adaptation"
)

// IsValid reports whether t is a recognised [Type] value.
func (t Type) IsValid() bool {
	return t == TypeOriginal || t == TypeAdaptation
}

// VersionType marks a derivative of another catalog entry.
type VersionType string

const (
	VersionRemix VersionType = "remix"
	VersionCover VersionType = "cover"
)

// IsValid reports whether v is a recognised [VersionType] value.
func (v VersionType) IsValid() bool {
	return v == VersionRemix || v == VersionCover
}

// Status is the administrative state of a catalog entry.
//
// Transitions are free-form except that removal always lands on [StatusInactive].
type Status string

const (
	// StatusPending is the state of every newly created entry.
	StatusPending Status = "pending"

	// StatusActive marks an entry cleared for exploitation.
	StatusActive Status = "active"

	// StatusInactive marks a soft-deleted entry. DateOut is set alongside.
	StatusInactive Status = "inactive"

	// StatusConflict flags an entry with disputed ownership.
	StatusConflict Status = "conflict"
)

// Statuses lists every [Status] in display order.
var Statuses = []Status{StatusPending, StatusActive, StatusInactive, StatusConflict}

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case
		StatusPending,
		StatusActive,
		StatusInactive,
		StatusConflict:
		return true
	}
	return false
}

// SongType classifies the commercial use of a work.
type SongType string

const (
	SongCommercial SongType = "commercial"
	SongJingles    SongType = "jingles"
	SongScoring    SongType = "scoring"
	SongMontage    SongType = "montage"
)

// SongTypes lists every [SongType] in display order.
var SongTypes = []SongType{SongCommercial, SongJingles, SongScoring, SongMontage}

// IsValid reports whether s is a recognised [SongType] value.
func (s SongType) IsValid() bool {
	switch s {
	case SongCommercial, SongJingles, SongScoring, SongMontage:
		return true
	}
	return false
}

// # Core Entities

// Catalog is the identity record of a musical work or version.
type Catalog struct {
	ID              string       `json:"id"`
	TapNumber       string       `json:"tapNumber"` // Immutable once issued
	InvCode         string       `json:"invCode"`
	IPICode         []string     `json:"ipiCode"`
	ISWCCode        string       `json:"iswcCode"`
	ISRCCode        string       `json:"isrcCode"`
	Type            Type         `json:"type"`
	VersionType     *VersionType `json:"versionType,omitempty"`
	ParentTapNumber *string      `json:"parentTapNumber,omitempty"` // Original work of a derivative
	Tagging         string       `json:"tagging"`
	SongType        *SongType    `json:"songType,omitempty"`
	Title           string       `json:"title"`
	AlternateTitle  string       `json:"alternateTitle"`
	Performer       string       `json:"performer"`
	Genre           string       `json:"genre"`
	Remarks         string       `json:"remarks"`
	YoutubeLink     string       `json:"youtubeLink"`

	// CountryCover equals len(SelectedCountries) whenever the list is non-empty.
	CountryCover      int      `json:"countrycover"`
	SelectedCountries []string `json:"selectedCountries"`

	Status        Status     `json:"status"`
	DateIn        time.Time  `json:"dateIn"`
	DateOut       *time.Time `json:"dateOut,omitempty"`
	AudioFilePath string     `json:"audioFilePath"`

	// TotalRevenue only grows, and only through recorded income.
	TotalRevenue float64 `json:"totalRevenue"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsCover reports whether the entry is a cover version.
func (catalog *Catalog) IsCover() bool {
	return catalog.VersionType != nil && *catalog.VersionType == VersionCover
}

// normalize keeps the denormalized country count in step with the list and
// replaces nil code lists with empty ones.
func (catalog *Catalog) normalize() {
	if catalog.IPICode == nil {
		catalog.IPICode = []string{}
	}
	if catalog.SelectedCountries == nil {
		catalog.SelectedCountries = []string{}
	}
	if len(catalog.SelectedCountries) > 0 {
		catalog.CountryCover = len(catalog.SelectedCountries)
	}
}

// Patch carries the mutable catalog fields of a partial update. Nil means
// "leave unchanged". The TAP number and revenue are deliberately absent.
type Patch struct {
	InvCode           *string
	IPICode           []string
	ISWCCode          *string
	ISRCCode          *string
	Type              *Type
	VersionType       *VersionType
	ParentTapNumber   *string
	Tagging           *string
	SongType          *SongType
	Title             *string
	AlternateTitle    *string
	Performer         *string
	Genre             *string
	Remarks           *string
	YoutubeLink       *string
	CountryCover      *int
	SelectedCountries []string
	Status            *Status
	DateIn            *time.Time
	DateOut           *time.Time
	AudioFilePath     *string
}

// apply copies every set field of patch onto catalog.
func (patch Patch) apply(catalog *Catalog) {
	setIf(&catalog.InvCode, patch.InvCode)
	setIf(&catalog.ISWCCode, patch.ISWCCode)
	setIf(&catalog.ISRCCode, patch.ISRCCode)
	setIf(&catalog.Type, patch.Type)
	setIf(&catalog.Tagging, patch.Tagging)
	setIf(&catalog.Title, patch.Title)
	setIf(&catalog.AlternateTitle, patch.AlternateTitle)
	setIf(&catalog.Performer, patch.Performer)
	setIf(&catalog.Genre, patch.Genre)
	setIf(&catalog.Remarks, patch.Remarks)
	setIf(&catalog.YoutubeLink, patch.YoutubeLink)
	setIf(&catalog.CountryCover, patch.CountryCover)
	setIf(&catalog.Status, patch.Status)
	setIf(&catalog.DateIn, patch.DateIn)
	setIf(&catalog.AudioFilePath, patch.AudioFilePath)

	if patch.IPICode != nil {
		catalog.IPICode = patch.IPICode
	}
	if patch.SelectedCountries != nil {
		catalog.SelectedCountries = patch.SelectedCountries
	}
	if patch.VersionType != nil {
		catalog.VersionType = patch.VersionType
	}
	if patch.ParentTapNumber != nil {
		catalog.ParentTapNumber = patch.ParentTapNumber
	}
	if patch.SongType != nil {
		catalog.SongType = patch.SongType
	}
	if patch.DateOut != nil {
		catalog.DateOut = patch.DateOut
	}

	catalog.normalize()
}

func setIf[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

// # Search & Filtering

// Filter holds the parameters of a catalog list query.
type Filter struct {
	Search        string // Case-insensitive match on title or TAP number
	Type          Type
	Status        Status
	Tagging       string // Case-insensitive substring of the tagging value
	IncludeCovers bool   // Covers are hidden unless set
}

// # Field Identifiers

// Field names used in validation details.
const (
	FieldID                     = "id"
	FieldTapNumber              = "tapNumber"
	FieldCatalogID              = "catalogId"
	FieldTitle                  = "title"
	FieldType                   = "type"
	FieldVersionType            = "versionType"
	FieldSongType               = "songType"
	FieldStatus                 = "status"
	FieldYoutubeLink            = "youtubeLink"
	FieldCountryCover           = "countrycover"
	FieldTagging                = "tagging"
	FieldName                   = "name"
	FieldRole                   = "role"
	FieldRoyaltyPercentage      = "royaltyPercentage"
	FieldPublisherType          = "publisherType"
	FieldPublisherPercentage    = "publisherPercentage"
	FieldSubPublisherPercentage = "subPublisherPercentage"
	FieldDistributor            = "distributor"
	FieldStartDate              = "startDate"
	FieldEndDate                = "endDate"
	FieldAmount                 = "amount"
	FieldDate                   = "date"
	FieldLimit                  = "limit"
)

// Audit entity names.
const (
	entityCatalog      = "Catalog"
	entityContributor  = "Contributor"
	entityDistribution = "Distribution"
	entityIncome       = "Income"
)
