// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	requestutil "github.com/taibuivan/tapledger/internal/platform/request"
	"github.com/taibuivan/tapledger/internal/platform/respond"
	"github.com/taibuivan/tapledger/pkg/convert"
)

// # Reporting Endpoints

/*
GET /api/v1/catalogs/tap/{tap}/details.

Description: Returns the catalog with its contributors grouped by role,
per-role totals, distributions, incomes and covers.

Response:
  - 200: FullDetails: Success
  - 404: NotFound: Unknown TAP number
*/
func (handler *Handler) getFullDetails(writer http.ResponseWriter, request *http.Request) {
	details, err := handler.service.GetCatalogFullDetails(request.Context(), requestutil.Param(request, "tap"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, details)
}

// getPublisherTotals handles GET /api/v1/catalogs/tap/{tap}/publisher/{name}.
func (handler *Handler) getPublisherTotals(writer http.ResponseWriter, request *http.Request) {
	totals, err := handler.service.GetPublisherTotals(request.Context(),
		requestutil.Param(request, "tap"),
		requestutil.Param(request, "name"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, totals)
}

// # Statistics Endpoints

func (handler *Handler) getAllTaggings(writer http.ResponseWriter, request *http.Request) {
	taggings, err := handler.service.GetAllTaggings(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, taggings)
}

// getPopularTaggings handles GET /api/v1/catalogs/popular-taggings?limit=.
// A missing or unparsable limit falls back to the default.
func (handler *Handler) getPopularTaggings(writer http.ResponseWriter, request *http.Request) {
	limit := convert.ToIntD(request.URL.Query().Get("limit"), 0)

	taggings, err := handler.service.GetPopularTaggings(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, taggings)
}

func (handler *Handler) getSongTypeCounts(writer http.ResponseWriter, request *http.Request) {
	counts, err := handler.service.GetSongTypeCounts(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, counts)
}

func (handler *Handler) getStatusCounts(writer http.ResponseWriter, request *http.Request) {
	counts, err := handler.service.GetStatusCounts(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, counts)
}
