package application

import (
	"net/url"
	"strconv"
)

// ListParams are the pagination and search parameters every list endpoint
// accepts. Zero values are omitted from both the query string and the cache
// key identity, so "no page given" and "page zero" are the same query.
type ListParams struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Search   string `json:"search,omitempty"`
	Ordering string `json:"ordering,omitempty"`
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Ordering != "" {
		v.Set("ordering", p.Ordering)
	}
	return v
}

type CountryListParams struct {
	ListParams
	ActiveOnly *bool `json:"is_active,omitempty"`
}

func (p CountryListParams) Values() url.Values {
	v := p.values()
	if p.ActiveOnly != nil {
		v.Set("is_active", strconv.FormatBool(*p.ActiveOnly))
	}
	return v
}

type LeagueListParams struct {
	ListParams
	CountryID  string `json:"country,omitempty"`
	ActiveOnly *bool  `json:"is_active,omitempty"`
}

func (p LeagueListParams) Values() url.Values {
	v := p.values()
	if p.CountryID != "" {
		v.Set("country", p.CountryID)
	}
	if p.ActiveOnly != nil {
		v.Set("is_active", strconv.FormatBool(*p.ActiveOnly))
	}
	return v
}

type TeamListParams struct {
	ListParams
	LeagueID   string `json:"league,omitempty"`
	CountryID  string `json:"country,omitempty"`
	ActiveOnly *bool  `json:"is_active,omitempty"`
}

func (p TeamListParams) Values() url.Values {
	v := p.values()
	if p.LeagueID != "" {
		v.Set("league", p.LeagueID)
	}
	if p.CountryID != "" {
		v.Set("country", p.CountryID)
	}
	if p.ActiveOnly != nil {
		v.Set("is_active", strconv.FormatBool(*p.ActiveOnly))
	}
	return v
}

type SeasonListParams struct {
	ListParams
	LeagueID    string `json:"league,omitempty"`
	CurrentOnly *bool  `json:"is_current,omitempty"`
}

func (p SeasonListParams) Values() url.Values {
	v := p.values()
	if p.LeagueID != "" {
		v.Set("league", p.LeagueID)
	}
	if p.CurrentOnly != nil {
		v.Set("is_current", strconv.FormatBool(*p.CurrentOnly))
	}
	return v
}
