package dto

import (
	"net/url"
	"strconv"
	"strings"

	"rentify_backend/internal/models"
)

// PropertySearchRequest - типизированные параметры поиска после разбора query string.
// nil / пустые значения не накладывают ограничений.
type PropertySearchRequest struct {
	Query   string
	City    string
	State   string
	Pincode string

	MinRent *float64
	MaxRent *float64
	MinArea *float64
	MaxArea *float64

	PropertyTypes []string
	BHK           []int
	Furnished     []string
	Amenities     []string

	Available  *bool
	IsFeatured *bool

	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// ParsePropertySearch reads the public search parameters. Set-valued filters
// accept repeated keys (?bhk=2&bhk=3) and comma lists (?bhk=2,3). Malformed
// values are collected into errs (field -> message); the caller rejects the
// request when errs is non-empty.
func ParsePropertySearch(q url.Values, sortKeys []string) (req PropertySearchRequest, errs map[string]string) {
	errs = make(map[string]string)
	p := &queryParser{values: q, errs: errs}

	req.Query = strings.TrimSpace(q.Get("query"))
	req.City = strings.TrimSpace(q.Get("city"))
	req.State = strings.TrimSpace(q.Get("state"))
	req.Pincode = strings.TrimSpace(q.Get("pincode"))

	req.MinRent = p.float("minRent")
	req.MaxRent = p.float("maxRent")
	req.MinArea = p.float("minArea")
	req.MaxArea = p.float("maxArea")

	req.PropertyTypes = p.enumList("propertyType", models.PropertyTypes)
	req.Furnished = p.enumList("furnished", models.Furnishings)
	req.BHK = p.intList("bhk", 0, 10)
	req.Amenities = p.list("amenities")

	req.Available = p.boolean("available")
	req.IsFeatured = p.boolean("isFeatured")

	req.SortBy = strings.TrimSpace(q.Get("sortBy"))
	if req.SortBy != "" && !contains(sortKeys, req.SortBy) {
		errs["sortBy"] = "Must be one of: " + strings.Join(sortKeys, ", ")
	}
	req.SortOrder = strings.ToLower(strings.TrimSpace(q.Get("sortOrder")))
	if req.SortOrder != "" && req.SortOrder != "asc" && req.SortOrder != "desc" {
		errs["sortOrder"] = "Must be one of: asc, desc"
	}

	req.Page, req.Limit = ParsePagination(q, errs)
	return req, errs
}

// ParsePagination reads page and limit; zero means "use the default".
func ParsePagination(q url.Values, errs map[string]string) (page, limit int) {
	p := &queryParser{values: q, errs: errs}
	if v := p.int("page"); v != nil {
		if *v < 1 {
			errs["page"] = "Must be at least 1"
		} else {
			page = *v
		}
	}
	if v := p.int("limit"); v != nil {
		if *v < 1 {
			errs["limit"] = "Must be at least 1"
		} else {
			limit = *v
		}
	}
	return page, limit
}

type queryParser struct {
	values url.Values
	errs   map[string]string
}

func (p *queryParser) raw(key string) string {
	return strings.TrimSpace(p.values.Get(key))
}

func (p *queryParser) float(key string) *float64 {
	raw := p.raw(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	// NaN и Inf тоже отклоняем: они ломают сравнение в SQL
	if err != nil || v != v || v > 1e15 || v < -1e15 {
		p.errs[key] = "Must be a number"
		return nil
	}
	return &v
}

func (p *queryParser) int(key string) *int {
	raw := p.raw(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs[key] = "Must be an integer"
		return nil
	}
	return &v
}

func (p *queryParser) boolean(key string) *bool {
	raw := p.raw(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs[key] = "Must be true or false"
		return nil
	}
	return &v
}

// list merges repeated keys and comma separated values.
func (p *queryParser) list(key string) []string {
	var out []string
	for _, v := range p.values[key] {
		out = append(out, strings.Split(v, ",")...)
	}
	out = cleanList(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func (p *queryParser) enumList(key string, allowed []string) []string {
	items := p.list(key)
	for _, it := range items {
		if !contains(allowed, it) {
			p.errs[key] = "Must be one of: " + strings.Join(allowed, ", ")
			return nil
		}
	}
	return items
}

func (p *queryParser) intList(key string, min, max int) []int {
	items := p.list(key)
	if len(items) == 0 {
		return nil
	}
	out := make([]int, 0, len(items))
	for _, it := range items {
		v, err := strconv.Atoi(it)
		if err != nil {
			p.errs[key] = "Must be an integer or a comma separated list of integers"
			return nil
		}
		if v < min || v > max {
			p.errs[key] = "Must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max)
			return nil
		}
		out = append(out, v)
	}
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// ====================
//  Response DTOs
// ====================

// PaginatedResponse - страница результатов.
type PaginatedResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}
