// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	requestutil "github.com/taibuivan/tapledger/internal/platform/request"
	"github.com/taibuivan/tapledger/internal/platform/respond"
)

// # Contributor Endpoints

// listContributorsByCatalog handles GET /api/v1/catalogs/{id}/contributors?role=.
func (handler *Handler) listContributorsByCatalog(writer http.ResponseWriter, request *http.Request) {
	handler.listContributors(writer, request, ContributorFilter{
		CatalogID: requestutil.ID(request, "id"),
		Role:      Role(request.URL.Query().Get("role")),
	})
}

// listContributorsByTap handles GET /api/v1/catalogs/tap/{tap}/contributors?role=.
func (handler *Handler) listContributorsByTap(writer http.ResponseWriter, request *http.Request) {
	handler.listContributors(writer, request, ContributorFilter{
		TapNumber: requestutil.Param(request, "tap"),
		Role:      Role(request.URL.Query().Get("role")),
	})
}

func (handler *Handler) listContributors(writer http.ResponseWriter, request *http.Request, filter ContributorFilter) {
	contributors, err := handler.service.ListContributors(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, contributors)
}

/*
POST /api/v1/catalogs/contributor.

Description: Attaches a contributor to a catalog. The role's royalty budget
for the TAP number must not exceed 100%.

Request (Body):
  - contributorRequest: JSON object (catalogId, tapNumber, name, role, royaltyPercentage)

Response:
  - 201: Contributor: Created contributor
  - 400: Validation: Invalid input, missing royaltyPercentage or budget exceeded
  - 404: NotFound: Catalog not found
  - 409: Conflict: TAP number does not match the catalog
*/
func (handler *Handler) addContributor(writer http.ResponseWriter, request *http.Request) {
	var input contributorRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	contributor, err := input.contributor()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddContributor(request.Context(), contributor); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, contributor)
}

/*
PATCH /api/v1/catalogs/contributor/{id}.

Description: Applies a partial update. catalogId and tapNumber in the body
are ignored.

Response:
  - 200: Contributor: Updated contributor
  - 400: Validation: Invalid input or budget exceeded
  - 404: NotFound: Contributor not found
*/
func (handler *Handler) updateContributor(writer http.ResponseWriter, request *http.Request) {
	var input contributorRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	contributor, err := handler.service.UpdateContributor(request.Context(), requestutil.ID(request, "id"), input.patch())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, contributor)
}

// # Distribution Endpoints

/*
POST /api/v1/catalogs/distribution.

Description: Opens a distribution window. The catalog's currently open
distribution, if any, is closed at the new startDate.

Response:
  - 201: Distribution: Created distribution
  - 400: Validation: Missing distributor or startDate
  - 404: NotFound: Catalog not found
  - 409: Conflict: TAP number does not match the catalog
*/
func (handler *Handler) addDistribution(writer http.ResponseWriter, request *http.Request) {
	var input distributionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	distribution := &Distribution{
		CatalogID:   input.CatalogID,
		TapNumber:   input.TapNumber,
		Distributor: input.Distributor,
		StartDate:   input.StartDate.Time,
		EndDate:     timeOf(input.EndDate),
	}

	if err := handler.service.AddDistribution(request.Context(), distribution); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, distribution)
}

// listDistributions handles GET /api/v1/catalogs/tap/{tap}/distributions.
func (handler *Handler) listDistributions(writer http.ResponseWriter, request *http.Request) {
	distributions, err := handler.service.GetDistributions(request.Context(), requestutil.Param(request, "tap"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, distributions)
}

// getActiveDistribution handles GET /api/v1/catalogs/tap/{tap}/distribution/active.
// The payload is null when nothing is active.
func (handler *Handler) getActiveDistribution(writer http.ResponseWriter, request *http.Request) {
	distribution, err := handler.service.GetActiveDistribution(request.Context(), requestutil.Param(request, "tap"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, distribution)
}

// # Income Endpoints

/*
POST /api/v1/catalogs/income.

Description: Books a revenue event and grows the catalog's totalRevenue.

Response:
  - 201: Income: Recorded income
  - 400: Validation: Missing or negative amount, or missing date
  - 404: NotFound: Catalog not found
  - 409: Conflict: TAP number does not match the catalog
*/
func (handler *Handler) recordIncome(writer http.ResponseWriter, request *http.Request) {
	var input incomeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	income, err := input.income()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RecordIncome(request.Context(), income); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, income)
}

/*
GET /api/v1/catalogs/tap/{tap}/incomes.

Request:
  - startDate: date (date >= startDate)
  - endDate: date (date <= endDate)
  - paid: bool

Response:
  - 200: []Income: Newest date first
*/
func (handler *Handler) listIncomes(writer http.ResponseWriter, request *http.Request) {
	filter := IncomeFilter{TapNumber: requestutil.Param(request, "tap")}

	var err error
	if filter.From, err = requestutil.QueryTime(request, "startDate"); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if filter.To, err = requestutil.QueryTime(request, "endDate"); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if filter.Paid, err = requestutil.QueryBool(request, "paid"); err != nil {
		respond.Error(writer, request, err)
		return
	}

	incomes, err := handler.service.GetIncomes(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, incomes)
}

// # Settlement Endpoints

/*
POST /api/v1/catalogs/income/{id}/calculate-royalties.

Description: Computes each contributor's payout and marks the income as
calculated. Works once per income.

Response:
  - 200: RoyaltyBreakdown: One line per contributor
  - 400: Validation: No contributors on the TAP number
  - 404: NotFound: Income not found
  - 409: Conflict: Already calculated
*/
func (handler *Handler) calculateRoyalties(writer http.ResponseWriter, request *http.Request) {
	breakdown, err := handler.service.CalculateRoyalties(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, breakdown)
}

/*
POST /api/v1/catalogs/income/{id}/process-payment.

Response:
  - 200: PaymentResult: Breakdown with paymentDate and paymentStatus
  - 400: Validation: Royalties not calculated yet
  - 404: NotFound: Income not found
  - 409: Conflict: Already paid
*/
func (handler *Handler) processPayment(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.ProcessPayment(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
