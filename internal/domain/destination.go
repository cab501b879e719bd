// Package domain contains the core data types for the Pureland travel API.
// This package has no infrastructure dependencies and is imported by every other
// internal package (repo, service, handler, cache).
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxDestinationNameLen is the longest destination name accepted on write.
const MaxDestinationNameLen = 100

// DestinationType partitions Explore destinations. Display order is only
// meaningful inside one partition.
type DestinationType string

const (
	DestinationInternational DestinationType = "international"
	DestinationDomestic      DestinationType = "domestic"
	DestinationWeekend       DestinationType = "weekend"
	DestinationRetreats      DestinationType = "retreats-and-healing"
)

// DestinationTypes lists every valid partition in display order.
var DestinationTypes = []DestinationType{
	DestinationInternational,
	DestinationDomestic,
	DestinationWeekend,
	DestinationRetreats,
}

// Valid reports whether t is a member of the closed DestinationType enum.
func (t DestinationType) Valid() bool {
	for _, v := range DestinationTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ParseDestinationType converts s into a DestinationType.
// Returns an error wrapping ErrValidation when s is not a known type.
func ParseDestinationType(s string) (DestinationType, error) {
	t := DestinationType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: type must be one of international, domestic, weekend, retreats-and-healing", ErrValidation)
	}
	return t, nil
}

// ExploreDestination is a card in the "Explore" section of the site.
// Order is the 1-based display position within its Type partition.
type ExploreDestination struct {
	ID        uuid.UUID
	Name      string
	Image     string
	URL       string
	Type      DestinationType
	Order     int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrendingDestination is a card in the "Trending" section of the site.
// The whole collection forms a single order partition.
type TrendingDestination struct {
	ID        uuid.UUID
	Name      string
	Image     string
	URL       string
	Price     float64
	Order     int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExploreDestinationFilter narrows an Explore listing. Nil fields do not filter.
type ExploreDestinationFilter struct {
	Type   *DestinationType
	Active *bool
}

// TrendingDestinationFilter narrows a Trending listing. Nil fields do not filter.
type TrendingDestinationFilter struct {
	Active *bool
}

// ExploreDestinationPatch is a partial update. Only non-nil fields are applied.
type ExploreDestinationPatch struct {
	Name     *string
	Image    *string
	URL      *string
	Type     *DestinationType
	Order    *int
	IsActive *bool
}

// Apply returns a copy of d with every non-nil patch field written over it.
func (p ExploreDestinationPatch) Apply(d ExploreDestination) ExploreDestination {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Image != nil {
		d.Image = *p.Image
	}
	if p.URL != nil {
		d.URL = *p.URL
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Order != nil {
		d.Order = *p.Order
	}
	if p.IsActive != nil {
		d.IsActive = *p.IsActive
	}
	return d
}

// TrendingDestinationPatch is a partial update. Only non-nil fields are applied.
type TrendingDestinationPatch struct {
	Name     *string
	Image    *string
	URL      *string
	Price    *float64
	Order    *int
	IsActive *bool
}

// Apply returns a copy of d with every non-nil patch field written over it.
func (p TrendingDestinationPatch) Apply(d TrendingDestination) TrendingDestination {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Image != nil {
		d.Image = *p.Image
	}
	if p.URL != nil {
		d.URL = *p.URL
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.Order != nil {
		d.Order = *p.Order
	}
	if p.IsActive != nil {
		d.IsActive = *p.IsActive
	}
	return d
}

// ExploreDestinationStats holds aggregate counts for the admin dashboard.
// ByType always carries an entry for every DestinationType, zero when empty.
type ExploreDestinationStats struct {
	Total    int
	Active   int
	Inactive int
	ByType   map[DestinationType]int
}

// TrendingDestinationStats holds aggregate counts for the admin dashboard.
type TrendingDestinationStats struct {
	Total    int
	Active   int
	Inactive int
}
