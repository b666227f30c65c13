package repository

import (
	"slices"
	"strings"

	"square-feet-api/internal/models"
)

// Matcher is a compiled PropertyFilters.
type Matcher struct {
	filters  models.PropertyFilters
	statuses []string
	city     string
	search   string
}

// NewMatcher prepares filters for repeated matching.
func NewMatcher(filters models.PropertyFilters) Matcher {
	return Matcher{
		filters:  filters,
		statuses: filters.Statuses(),
		city:     strings.ToLower(filters.City),
		search:   strings.ToLower(filters.Search),
	}
}

// Match reports whether p satisfies every supplied filter.
func (m Matcher) Match(p models.Property) bool {
	f := m.filters

	if f.SellerID != "" && p.SellerID != f.SellerID {
		return false
	}
	if len(m.statuses) > 0 && !slices.Contains(m.statuses, strings.ToLower(string(p.Status))) {
		return false
	}
	if f.PropertyType != "" && string(p.PropertyType) != f.PropertyType {
		return false
	}
	if m.city != "" && strings.ToLower(p.Address.City) != m.city {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if m.search != "" {
		haystack := strings.ToLower(strings.Join([]string{
			p.Title, p.Description, p.Address.City, p.Address.State,
		}, " "))
		if !strings.Contains(haystack, m.search) {
			return false
		}
	}
	return true
}

// Filter returns the items of props that match filters. The result is never nil.
func Filter(props []models.Property, filters models.PropertyFilters) []models.Property {
	m := NewMatcher(filters)
	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		if m.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
