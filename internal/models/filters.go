package models

import "strings"

// PropertyFilters narrows a listing query. Zero values mean "no filter".
type PropertyFilters struct {
	Status       string   `form:"status"` // comma-separated, case-insensitive
	PropertyType string   `form:"propertyType"`
	City         string   `form:"city"`
	MinPrice     *float64 `form:"minPrice"`
	MaxPrice     *float64 `form:"maxPrice"`
	Search       string   `form:"search"`
	SellerID     string   `form:"sellerId"`
}

// Statuses splits the status filter into lower-cased values.
func (f PropertyFilters) Statuses() []string {
	if strings.TrimSpace(f.Status) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(f.Status, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
