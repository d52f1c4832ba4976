package domain

import "time"

// List items are the denormalized subset shape the backend returns inside
// paginated envelopes: relation objects are flattened to id + display name.
// Detail entities carry the nested relation objects. A list item is never a
// substitute for a detail entity.

type CountryListItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

type Country struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	FlagURL   string    `json:"flag_url"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LeagueListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ExternalID  string `json:"external_id"`
	CountryID   string `json:"country"`
	CountryName string `json:"country_name"`
	IsActive    bool   `json:"is_active"`
}

type League struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ExternalID string    `json:"external_id"`
	Country    Country   `json:"country"`
	LogoURL    string    `json:"logo_url"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type TeamListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	ExternalID  string `json:"external_id"`
	LeagueID    string `json:"league"`
	LeagueName  string `json:"league_name"`
	CountryName string `json:"country_name"`
	IsActive    bool   `json:"is_active"`
}

type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ShortName   string    `json:"short_name"`
	ExternalID  string    `json:"external_id"`
	League      League    `json:"league"`
	Venue       string    `json:"venue"`
	FoundedYear int       `json:"founded_year"`
	LogoURL     string    `json:"logo_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SeasonListItem struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	LeagueID   string `json:"league"`
	LeagueName string `json:"league_name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	IsCurrent  bool   `json:"is_current"`
}

type Season struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	League    League    `json:"league"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	IsCurrent bool      `json:"is_current"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
