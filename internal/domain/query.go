package domain

import (
	"fmt"
	"net/url"
	"strconv"
)

type SortKey string

const (
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// CatalogQuerySpec describes one catalog search: pagination, filters and
// sorting. Zero values mean "not set" for the optional fields.
type CatalogQuerySpec struct {
	Page      int
	Size      int
	Name      string
	Category  string
	MinPrice  int64
	MaxPrice  int64
	SortBy    SortKey
	SortOrder SortOrder
}

// Validate checks the spec invariants locally. A violation is a caller error
// and must be rejected before any request is sent.
func (s CatalogQuerySpec) Validate() error {
	if s.Page < 1 {
		return NewError(KindValidation, "page must be at least 1")
	}
	if s.Size < 1 {
		return NewError(KindValidation, "page size must be positive")
	}
	if s.MinPrice < 0 || s.MaxPrice < 0 {
		return NewError(KindValidation, "price bounds cannot be negative")
	}
	if s.MaxPrice > 0 && s.MinPrice > s.MaxPrice {
		return NewError(KindValidation, "minimum price cannot be greater than maximum price")
	}
	if s.SortBy != "" && s.SortBy != SortByName && s.SortBy != SortByPrice {
		return NewError(KindValidation, fmt.Sprintf("unknown sort key %q", s.SortBy))
	}
	if s.SortOrder != "" && s.SortOrder != SortAsc && s.SortOrder != SortDesc {
		return NewError(KindValidation, fmt.Sprintf("unknown sort order %q", s.SortOrder))
	}
	return nil
}

// Values encodes the spec as catalog-search query parameters. Unset optional
// fields are omitted.
func (s CatalogQuerySpec) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(s.Page))
	v.Set("size", strconv.Itoa(s.Size))
	if s.Name != "" {
		v.Set("name", s.Name)
	}
	if s.Category != "" {
		v.Set("category", s.Category)
	}
	if s.SortBy != "" {
		v.Set("sortBy", string(s.SortBy))
	}
	if s.SortOrder != "" {
		v.Set("sortOrder", string(s.SortOrder))
	}
	if s.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatInt(s.MinPrice, 10))
	}
	if s.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatInt(s.MaxPrice, 10))
	}
	return v
}

// CacheKey is a stable identifier for this spec, usable as a cache key.
func (s CatalogQuerySpec) CacheKey() string {
	return s.Values().Encode()
}
