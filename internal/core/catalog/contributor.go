// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"strconv"
	"time"
)

// Role is the capacity in which a contributor holds a share. Each role has
// its own 100% budget per TAP number.
type Role string

const (
	RoleComposer       Role = "C"
	RoleAuthor         Role = "A"
	RoleComposerAuthor Role = "CA"
	RoleArranger       Role = "AR"
)

// IsValid reports whether r is a recognised [Role] value.
func (r Role) IsValid() bool {
	switch r {
	case RoleComposer, RoleAuthor, RoleComposerAuthor, RoleArranger:
		return true
	}
	return false
}

// PublisherType tells original publishers from sub-publishers.
type PublisherType string

const (
	PublisherOriginal PublisherType = "OP"
	PublisherSub      PublisherType = "SP"
)

// IsValid reports whether p is empty or a recognised [PublisherType] value.
func (p PublisherType) IsValid() bool {
	return p == "" || p == PublisherOriginal || p == PublisherSub
}

// Contributor is a rights holder's share of one catalog in one role.
type Contributor struct {
	ID                     string        `json:"id"`
	CatalogID              string        `json:"catalogId"`
	TapNumber              string        `json:"tapNumber"` // Must equal the owning catalog's
	Name                   string        `json:"name"`
	Role                   Role          `json:"role"`
	RoyaltyPercentage      float64       `json:"royaltyPercentage"`
	Manager                string        `json:"manager,omitempty"`
	PublisherType          PublisherType `json:"publisherType,omitempty"`
	PublisherName          string        `json:"publisherName,omitempty"`
	PublisherPercentage    float64       `json:"publisherPercentage"`
	SubPublisherName       string        `json:"subPublisherName,omitempty"`
	SubPublisherPercentage float64       `json:"subPublisherPercentage"`
	CreatedAt              time.Time     `json:"createdAt"`
	UpdatedAt              time.Time     `json:"updatedAt"`
}

// ContributorPatch carries the mutable fields of a contributor update.
// Ownership (catalog and TAP number) never changes.
type ContributorPatch struct {
	Name                   *string
	Role                   *Role
	RoyaltyPercentage      *float64
	Manager                *string
	PublisherType          *PublisherType
	PublisherName          *string
	PublisherPercentage    *float64
	SubPublisherName       *string
	SubPublisherPercentage *float64
}

// touchesAllocation reports whether applying the patch can grow the budget
// used by a role.
func (patch ContributorPatch) touchesAllocation(current *Contributor) bool {
	if patch.Role != nil && *patch.Role != current.Role {
		return true
	}
	return patch.RoyaltyPercentage != nil && *patch.RoyaltyPercentage != current.RoyaltyPercentage
}

func (patch ContributorPatch) apply(contributor *Contributor) {
	setIf(&contributor.Name, patch.Name)
	setIf(&contributor.Role, patch.Role)
	setIf(&contributor.RoyaltyPercentage, patch.RoyaltyPercentage)
	setIf(&contributor.Manager, patch.Manager)
	setIf(&contributor.PublisherType, patch.PublisherType)
	setIf(&contributor.PublisherName, patch.PublisherName)
	setIf(&contributor.PublisherPercentage, patch.PublisherPercentage)
	setIf(&contributor.SubPublisherName, patch.SubPublisherName)
	setIf(&contributor.SubPublisherPercentage, patch.SubPublisherPercentage)
}

// ContributorFilter selects contributors of one catalog. Exactly one of
// CatalogID or TapNumber is expected; Role is optional.
type ContributorFilter struct {
	CatalogID string
	TapNumber string
	Role      Role
}

// # Allocation Budget

// maxAllocation is the per-role share budget.
const maxAllocation = 100.0

// allocationEpsilon absorbs float noise such as 33.3 + 33.3 + 33.4.
const allocationEpsilon = 1e-9

// exceedsBudget reports whether adding share to current overshoots the role budget.
func exceedsBudget(current, share float64) bool {
	return current+share > maxAllocation+allocationEpsilon
}

// formatPercent renders a percentage without trailing zeros ("60", "33.5").
func formatPercent(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
