package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds the page being requested and its size.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Meta is returned next to every paginated list.
type Meta struct {
	CurrentPage  int  `json:"current_page"`
	PerPage      int  `json:"per_page"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
}

// ParseParams reads page and limit from the query string, clamping limit to MaxLimit.
func ParseParams(r *http.Request) Params {
	p := Params{Page: positiveInt(r, "page", DefaultPage), Limit: positiveInt(r, "limit", DefaultLimit)}
	p.Validate()
	return p
}

// ParseFixed reads only the page number; the page size is always size.
func ParseFixed(r *http.Request, size int) Params {
	p := Params{Page: positiveInt(r, "page", DefaultPage), Limit: size}
	p.capPage()
	return p
}

// capPage keeps Offset within a 32-bit OFFSET for any page the client asks for.
func (p *Params) capPage() {
	if p.Limit < 1 {
		return
	}
	if maxPage := math.MaxInt32 / p.Limit; p.Page > maxPage {
		p.Page = maxPage
	}
}

func positiveInt(r *http.Request, key string, def int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// Validate resets out-of-range values to their defaults.
func (p *Params) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	p.capPage()
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta builds the response metadata for total matching rows.
func (p Params) Meta(total int) Meta {
	pages := (total + p.Limit - 1) / p.Limit
	if pages < 1 {
		pages = 1
	}
	return Meta{
		CurrentPage:  p.Page,
		PerPage:      p.Limit,
		TotalPages:   pages,
		TotalRecords: total,
		HasNext:      p.Page < pages,
		HasPrevious:  p.Page > 1,
	}
}
