package domain

// Create payloads carry every server-mandatory field as a plain value.
// Update payloads make every mutable field a pointer: nil means "leave
// unchanged" under PATCH. PUT callers must populate every field, since the
// server may reset omitted fields to defaults on full replacement.

type CreateCountry struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	FlagURL  string `json:"flag_url,omitempty"`
	IsActive bool   `json:"is_active"`
}

type UpdateCountry struct {
	Name     *string `json:"name,omitempty"`
	Code     *string `json:"code,omitempty"`
	FlagURL  *string `json:"flag_url,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type CreateLeague struct {
	Name       string `json:"name"`
	ExternalID string `json:"external_id,omitempty"`
	CountryID  string `json:"country"`
	LogoURL    string `json:"logo_url,omitempty"`
	IsActive   bool   `json:"is_active"`
}

type UpdateLeague struct {
	Name       *string `json:"name,omitempty"`
	ExternalID *string `json:"external_id,omitempty"`
	CountryID  *string `json:"country,omitempty"`
	LogoURL    *string `json:"logo_url,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

type CreateTeam struct {
	Name        string `json:"name"`
	ShortName   string `json:"short_name,omitempty"`
	ExternalID  string `json:"external_id,omitempty"`
	LeagueID    string `json:"league"`
	Venue       string `json:"venue,omitempty"`
	FoundedYear int    `json:"founded_year,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type UpdateTeam struct {
	Name        *string `json:"name,omitempty"`
	ShortName   *string `json:"short_name,omitempty"`
	ExternalID  *string `json:"external_id,omitempty"`
	LeagueID    *string `json:"league,omitempty"`
	Venue       *string `json:"venue,omitempty"`
	FoundedYear *int    `json:"founded_year,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type CreateSeason struct {
	Label     string `json:"label"`
	LeagueID  string `json:"league"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsCurrent bool   `json:"is_current"`
}

type UpdateSeason struct {
	Label     *string `json:"label,omitempty"`
	LeagueID  *string `json:"league,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	IsCurrent *bool   `json:"is_current,omitempty"`
}
