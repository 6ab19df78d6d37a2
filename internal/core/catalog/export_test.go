// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

// SQL builders, exposed to the external test package.
var (
	InsertCatalogStatement     = insertCatalogStatement
	UpdateCatalogStatement     = updateCatalogStatement
	ListCatalogsStatement      = listCatalogsStatement
	CountCatalogsStatement     = countCatalogsStatement
	InsertContributorStatement = insertContributorStatement
	UpdateContributorStatement = updateContributorStatement
	SumRoyaltyStatement        = sumRoyaltyStatement
)
