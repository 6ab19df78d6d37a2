// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tapledger/internal/platform/middleware"
	"github.com/taibuivan/tapledger/internal/platform/sec"
	"github.com/taibuivan/tapledger/internal/platform/validate"
	"github.com/taibuivan/tapledger/pkg/pointer"
)

// # Handler Implementation

// Handler implements the HTTP layer of the royalty ledger.
// It translates web requests into [Service] calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalog [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the ledger's endpoints.
//
// # Routing Strategy
//
//   - Reads (Public): catalog lookups, reports and statistics.
//   - Writes (Restricted): every state change requires [sec.RoleAdmin].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Catalog Reads
	router.Get("/", handler.listCatalogs)
	router.Get("/all-taggings", handler.getAllTaggings)
	router.Get("/popular-taggings", handler.getPopularTaggings)
	router.Get("/stats/song-types", handler.getSongTypeCounts)
	router.Get("/stats/status-counts", handler.getStatusCounts)
	router.Get("/{id}", handler.getCatalog)
	router.Get("/{id}/contributors", handler.listContributorsByCatalog)

	// ## TAP Number Reads
	router.Route("/tap/{tap}", func(tap chi.Router) {
		tap.Get("/", handler.getCatalogByTap)
		tap.Get("/details", handler.getFullDetails)
		tap.Get("/covers", handler.getCovers)
		tap.Get("/contributors", handler.listContributorsByTap)
		tap.Get("/distributions", handler.listDistributions)
		tap.Get("/distribution/active", handler.getActiveDistribution)
		tap.Get("/incomes", handler.listIncomes)
		tap.Get("/publisher/{name}", handler.getPublisherTotals)
	})

	// ## Ledger Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		// Catalogs
		admin.Post("/", handler.createCatalog)
		admin.Patch("/{id}", handler.updateCatalog)
		admin.Patch("/{id}/tagging", handler.updateTagging)
		admin.Delete("/{id}", handler.removeCatalog)
		admin.Delete("/{id}/hard", handler.hardRemoveCatalog)

		// Allocation
		admin.Post("/contributor", handler.addContributor)
		admin.Patch("/contributor/{id}", handler.updateContributor)

		// Distribution and income
		admin.Post("/distribution", handler.addDistribution)
		admin.Post("/income", handler.recordIncome)
		admin.Post("/income/{id}/calculate-royalties", handler.calculateRoyalties)
		admin.Post("/income/{id}/process-payment", handler.processPayment)
	})

	return router
}

// # Wire Types

// flexibleTime accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date.
type flexibleTime struct {
	time.Time
}

// UnmarshalJSON implements [json.Unmarshaler].
func (value *flexibleTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		value.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		parsed, err = time.Parse(time.DateOnly, raw)
	}
	if err != nil {
		return err
	}

	value.Time = parsed
	return nil
}

// timeOf unwraps an optional flexible time.
func timeOf(value *flexibleTime) *time.Time {
	if value == nil || value.IsZero() {
		return nil
	}
	return pointer.To(value.Time)
}

// # Request Payloads

// catalogRequest is the inbound JSON schema of catalog creation and update.
// tapNumber is honoured on create only; totalRevenue is never accepted.
type catalogRequest struct {
	TapNumber         *string       `json:"tapNumber"`
	InvCode           *string       `json:"invCode"`
	IPICode           []string      `json:"ipiCode"`
	ISWCCode          *string       `json:"iswcCode"`
	ISRCCode          *string       `json:"isrcCode"`
	Type              *Type         `json:"type"`
	VersionType       *VersionType  `json:"versionType"`
	ParentTapNumber   *string       `json:"parentTapNumber"`
	Tagging           *string       `json:"tagging"`
	SongType          *SongType     `json:"songType"`
	Title             *string       `json:"title"`
	AlternateTitle    *string       `json:"alternateTitle"`
	Performer         *string       `json:"performer"`
	Genre             *string       `json:"genre"`
	Remarks           *string       `json:"remarks"`
	YoutubeLink       *string       `json:"youtubeLink"`
	CountryCover      *int          `json:"countrycover"`
	SelectedCountries []string      `json:"selectedCountries"`
	Status            *Status       `json:"status"`
	DateIn            *flexibleTime `json:"dateIn"`
	DateOut           *flexibleTime `json:"dateOut"`
	AudioFilePath     *string       `json:"audioFilePath"`
}

// patch maps the request onto a [Patch].
func (input catalogRequest) patch() Patch {
	return Patch{
		InvCode:           input.InvCode,
		IPICode:           input.IPICode,
		ISWCCode:          input.ISWCCode,
		ISRCCode:          input.ISRCCode,
		Type:              input.Type,
		VersionType:       input.VersionType,
		ParentTapNumber:   input.ParentTapNumber,
		Tagging:           input.Tagging,
		SongType:          input.SongType,
		Title:             input.Title,
		AlternateTitle:    input.AlternateTitle,
		Performer:         input.Performer,
		Genre:             input.Genre,
		Remarks:           input.Remarks,
		YoutubeLink:       input.YoutubeLink,
		CountryCover:      input.CountryCover,
		SelectedCountries: input.SelectedCountries,
		Status:            input.Status,
		DateIn:            timeOf(input.DateIn),
		DateOut:           timeOf(input.DateOut),
		AudioFilePath:     input.AudioFilePath,
	}
}

// catalog builds a new entry from the request. Server-owned fields are left
// for [Service.CreateCatalog] to fill.
func (input catalogRequest) catalog() *Catalog {
	catalog := &Catalog{}
	input.patch().apply(catalog)
	catalog.TapNumber = strings.TrimSpace(pointer.Val(input.TapNumber))
	return catalog
}

type taggingRequest struct {
	Tagging string `json:"tagging"`
}

// contributorRequest is the inbound JSON schema of contributor creation and update.
type contributorRequest struct {
	CatalogID              string         `json:"catalogId"`
	TapNumber              string         `json:"tapNumber"`
	Name                   *string        `json:"name"`
	Role                   *Role          `json:"role"`
	RoyaltyPercentage      *float64       `json:"royaltyPercentage"`
	Manager                *string        `json:"manager"`
	PublisherType          *PublisherType `json:"publisherType"`
	PublisherName          *string        `json:"publisherName"`
	PublisherPercentage    *float64       `json:"publisherPercentage"`
	SubPublisherName       *string        `json:"subPublisherName"`
	SubPublisherPercentage *float64       `json:"subPublisherPercentage"`
}

func (input contributorRequest) patch() ContributorPatch {
	return ContributorPatch{
		Name:                   input.Name,
		Role:                   input.Role,
		RoyaltyPercentage:      input.RoyaltyPercentage,
		Manager:                input.Manager,
		PublisherType:          input.PublisherType,
		PublisherName:          input.PublisherName,
		PublisherPercentage:    input.PublisherPercentage,
		SubPublisherName:       input.SubPublisherName,
		SubPublisherPercentage: input.SubPublisherPercentage,
	}
}

// contributor builds a new contributor. An absent royaltyPercentage is
// rejected rather than read as 0.
func (input contributorRequest) contributor() (*Contributor, error) {
	if input.RoyaltyPercentage == nil {
		return nil, validate.RequiredError(FieldRoyaltyPercentage, "This field is required")
	}

	contributor := &Contributor{
		CatalogID: input.CatalogID,
		TapNumber: input.TapNumber,
	}
	input.patch().apply(contributor)
	return contributor, nil
}

type distributionRequest struct {
	CatalogID   string        `json:"catalogId"`
	TapNumber   string        `json:"tapNumber"`
	Distributor string        `json:"distributor"`
	StartDate   flexibleTime  `json:"startDate"`
	EndDate     *flexibleTime `json:"endDate"`
}

type incomeRequest struct {
	CatalogID string       `json:"catalogId"`
	TapNumber string       `json:"tapNumber"`
	Amount    *float64     `json:"amount"`
	Date      flexibleTime `json:"date"`
	Source    string       `json:"source"`
}

func (input incomeRequest) income() (*Income, error) {
	if input.Amount == nil {
		return nil, validate.RequiredError(FieldAmount, "This field is required")
	}

	return &Income{
		CatalogID: input.CatalogID,
		TapNumber: input.TapNumber,
		Amount:    *input.Amount,
		Date:      input.Date.Time,
		Source:    input.Source,
	}, nil
}
