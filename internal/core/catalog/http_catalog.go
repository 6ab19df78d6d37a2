// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	requestutil "github.com/taibuivan/tapledger/internal/platform/request"
	"github.com/taibuivan/tapledger/internal/platform/respond"
	"github.com/taibuivan/tapledger/pkg/pagination"
)

// # Catalog Endpoints

/*
GET /api/v1/catalogs.

Description: Retrieves a paginated list of catalogs, newest dateIn first.
Covers are hidden unless includeCovers=true.

Request:
  - search: string (Title or TAP number, case-insensitive)
  - type: string (original, adaptation)
  - status: string (pending, active, inactive, conflict)
  - tagging: string (Substring, case-insensitive)
  - includeCovers: bool
  - page: int
  - limit: int

Response:
  - 200: []Catalog: Paginated list of catalogs
  - 400: Validation: Unknown type or status
*/
func (handler *Handler) listCatalogs(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	includeCovers, err := requestutil.QueryBool(request, "includeCovers")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		Search:        queryParams.Get("search"),
		Type:          Type(queryParams.Get("type")),
		Status:        Status(queryParams.Get("status")),
		Tagging:       queryParams.Get("tagging"),
		IncludeCovers: includeCovers != nil && *includeCovers,
	}

	catalogs, total, err := handler.service.ListCatalogs(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, catalogs, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/catalogs/{id}.

Response:
  - 200: Catalog: Success
  - 404: NotFound: Unknown or malformed ID
*/
func (handler *Handler) getCatalog(writer http.ResponseWriter, request *http.Request) {
	catalog, err := handler.service.GetCatalog(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, catalog)
}

/*
GET /api/v1/catalogs/tap/{tap}.

Response:
  - 200: Catalog: Success
  - 404: NotFound: Unknown TAP number
*/
func (handler *Handler) getCatalogByTap(writer http.ResponseWriter, request *http.Request) {
	catalog, err := handler.service.GetCatalogByTapNumber(request.Context(), requestutil.Param(request, "tap"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, catalog)
}

// getCovers handles GET /api/v1/catalogs/tap/{tap}/covers.
func (handler *Handler) getCovers(writer http.ResponseWriter, request *http.Request) {
	covers, err := handler.service.GetCoversByParentTap(request.Context(), requestutil.Param(request, "tap"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, covers)
}

// # Mutation Endpoints

/*
POST /api/v1/catalogs.

Description: Registers a new catalog. A TAP number is issued when the body
does not carry one. The authenticated user is recorded as createdBy.

Request (Body):
  - catalogRequest: JSON object (title is required)

Response:
  - 201: Catalog: Created catalog
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 404: NotFound: parentTapNumber does not exist
  - 409: Conflict: TAP number already taken
*/
func (handler *Handler) createCatalog(writer http.ResponseWriter, request *http.Request) {
	var input catalogRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	catalog := input.catalog()
	if err := handler.service.CreateCatalog(request.Context(), catalog, actorID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, catalog)
}

/*
PATCH /api/v1/catalogs/{id}.

Description: Applies a partial update. tapNumber and totalRevenue in the
body are ignored.

Response:
  - 200: Catalog: Updated catalog
  - 400: Validation: Invalid input data
  - 404: NotFound: Catalog not found
*/
func (handler *Handler) updateCatalog(writer http.ResponseWriter, request *http.Request) {
	var input catalogRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	catalog, err := handler.service.UpdateCatalog(request.Context(), requestutil.ID(request, "id"), input.patch())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, catalog)
}

// updateTagging handles PATCH /api/v1/catalogs/{id}/tagging.
func (handler *Handler) updateTagging(writer http.ResponseWriter, request *http.Request) {
	var input taggingRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	catalog, err := handler.service.UpdateCatalogTagging(request.Context(), requestutil.ID(request, "id"), input.Tagging)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, catalog)
}

/*
DELETE /api/v1/catalogs/{id}.

Description: Soft-deletes the catalog (status inactive, dateOut now).
Contributors, distributions and incomes stay in place.

Response:
  - 204: No Content
  - 404: NotFound: Catalog not found
*/
func (handler *Handler) removeCatalog(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.RemoveCatalog(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
DELETE /api/v1/catalogs/{id}/hard.

Description: Purges the catalog with all its contributors, distributions and
incomes. Irreversible.
*/
func (handler *Handler) hardRemoveCatalog(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.HardRemoveCatalog(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
