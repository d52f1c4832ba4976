package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/matchforge/sportadmin/internal/adapters/rest/resttest"
	"github.com/matchforge/sportadmin/internal/domain"
)

func seedLeagues(t *testing.T, f *serviceFixture, countryID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		f.server.Seed("leagues", resttest.Record{
			"name":      fmt.Sprintf("League %02d", i),
			"country":   countryID,
			"is_active": i%2 == 0,
		})
	}
}

func TestEnvelopeInvariants(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	countryID := f.seedCountry(t, "England", "ENG")
	seedLeagues(t, f, countryID, 25)

	env, err := f.service.LeagueList(ctx, LeagueListParams{ListParams: ListParams{Page: 1, PageSize: 20}})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(env.Results) > 20 {
		t.Fatalf("results.length %d exceeds page_size 20", len(env.Results))
	}
	if env.Count < len(env.Results) {
		t.Fatalf("count %d < results.length %d", env.Count, len(env.Results))
	}
	if env.Count != 25 {
		t.Fatalf("count = %d, want 25", env.Count)
	}
	if env.Next == nil {
		t.Fatalf("expected a next cursor with 25 records and page size 20")
	}

	page2, err := f.service.LeagueList(ctx, LeagueListParams{ListParams: ListParams{Page: 2, PageSize: 20}})
	if err != nil {
		t.Fatalf("page 2 failed: %v", err)
	}
	f.service.Querier().Wait()
	page2, err = f.service.LeagueList(ctx, LeagueListParams{ListParams: ListParams{Page: 2, PageSize: 20}})
	if err != nil {
		t.Fatalf("page 2 refetch failed: %v", err)
	}
	if len(page2.Results) != 5 || page2.Previous == nil || page2.Next != nil {
		t.Fatalf("page 2 = %d results, prev %v, next %v", len(page2.Results), page2.Previous, page2.Next)
	}
}

func TestListThenFilterScenario(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	countryID := f.seedCountry(t, "England", "ENG")
	seedLeagues(t, f, countryID, 10)

	unfiltered := LeagueListParams{ListParams: ListParams{Page: 1, PageSize: 20}}
	env, err := f.service.LeagueList(ctx, unfiltered)
	if err != nil {
		t.Fatalf("unfiltered list: %v", err)
	}
	if len(env.Results) > 20 || env.Count != 10 {
		t.Fatalf("unfiltered envelope = count %d, %d results", env.Count, len(env.Results))
	}
	baseline := f.server.Requests(http.MethodGet, "/api/leagues/")

	filtered := LeagueListParams{ListParams: ListParams{Page: 1, PageSize: 20, Search: "nonexistent-xyz"}}
	got, err := f.service.LeagueList(ctx, filtered)
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if got.Count != 0 || len(got.Results) != 0 {
		t.Fatalf("filtered envelope = count %d, %d results, want empty", got.Count, len(got.Results))
	}
	if f.server.Requests(http.MethodGet, "/api/leagues/") != baseline+1 {
		t.Fatalf("distinct filters must populate a distinct entry via a new request")
	}

	// The original unfiltered entry is still cached and untouched.
	entry, _ := f.store.Get(ctx, ListKey(ResourceLeagues, unfiltered))
	if entry == nil || entry.Stale {
		t.Fatalf("unfiltered entry should remain fresh, got %+v", entry)
	}
	again, err := f.service.LeagueList(ctx, unfiltered)
	if err != nil || again.Count != 10 {
		t.Fatalf("unfiltered reread = count %d, %v", again.Count, err)
	}
	if f.server.Requests(http.MethodGet, "/api/leagues/") != baseline+1 {
		t.Fatalf("unfiltered reread must come from cache")
	}
}

func TestRelationReadLeavesFilteredListCached(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	countryID := f.seedCountry(t, "England", "ENG")
	seedLeagues(t, f, countryID, 3)

	filtered := LeagueListParams{ListParams: ListParams{Page: 1, PageSize: 20}, CountryID: countryID}
	if _, err := f.service.LeagueList(ctx, filtered); err != nil {
		t.Fatalf("prime filtered list: %v", err)
	}
	if _, err := f.service.LeaguesByCountry(ctx, countryID); err != nil {
		t.Fatalf("relation read: %v", err)
	}
	baseline := f.server.Requests(http.MethodGet, "/api/leagues/")

	// Both entries are fresh; rereading either must stay off the network.
	env, err := f.service.LeagueList(ctx, filtered)
	if err != nil || env.Count != 3 {
		t.Fatalf("filtered reread = count %d, %v", env.Count, err)
	}
	if got := f.server.Requests(http.MethodGet, "/api/leagues/"); got != baseline {
		t.Fatalf("fresh filtered list refetched after a relation read: %d requests, want %d", got, baseline)
	}
	byCountry, err := f.service.LeaguesByCountry(ctx, countryID)
	if err != nil || len(byCountry) != 3 {
		t.Fatalf("relation reread = %d leagues, %v", len(byCountry), err)
	}
	if got := f.server.Requests(http.MethodGet, "/api/leagues/by-country/"+countryID+"/"); got != 1 {
		t.Fatalf("fresh relation read refetched: %d requests, want 1", got)
	}
}

func TestActiveOnlyRead(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	countryID := f.seedCountry(t, "England", "ENG")
	seedLeagues(t, f, countryID, 6)

	active, err := f.service.ActiveLeagues(ctx)
	if err != nil {
		t.Fatalf("active leagues: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("active count = %d, want 3", len(active))
	}
	for _, league := range active {
		if !league.IsActive {
			t.Fatalf("inactive league in active-only response: %+v", league)
		}
	}
}

func TestByRelationRead(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	england := f.seedCountry(t, "England", "ENG")
	spain := f.seedCountry(t, "Spain", "ESP")
	seedLeagues(t, f, england, 2)
	f.server.Seed("leagues", resttest.Record{"name": "La Liga", "country": spain, "is_active": true})

	leagues, err := f.service.LeaguesByCountry(ctx, spain)
	if err != nil {
		t.Fatalf("leagues by country: %v", err)
	}
	if len(leagues) != 1 || leagues[0].Name != "La Liga" {
		t.Fatalf("leagues = %+v", leagues)
	}
	if leagues[0].CountryName != "Spain" {
		t.Fatalf("denormalized country name = %q", leagues[0].CountryName)
	}

	if _, err := f.service.LeaguesByCountry(ctx, "999"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown relation id should map to ErrNotFound, got %v", err)
	}

	// The gated variant never issues a request without a parent id.
	if _, err := f.service.LeaguesByCountry(ctx, ""); !errors.Is(err, ErrQueryDisabled) {
		t.Fatalf("empty relation id should disable the query, got %v", err)
	}
}

func TestSearchReads(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	countryID := f.seedCountry(t, "England", "ENG")
	f.server.Seed("leagues", resttest.Record{"name": "Premier League", "country": countryID, "is_active": true, "external_id": "PL-1"})
	f.server.Seed("leagues", resttest.Record{"name": "Championship", "country": countryID, "is_active": true, "external_id": "CH-2"})

	env, err := f.service.SearchLeagues(ctx, "premier", 1, 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if env.Count != 1 || env.Results[0].Name != "Premier League" {
		t.Fatalf("search envelope = %+v", env)
	}

	// Search also matches the external id field.
	env, err = f.service.SearchLeagues(ctx, "ch-2", 1, 20)
	if err != nil || env.Count != 1 {
		t.Fatalf("external id search = %+v, %v", env, err)
	}

	if _, err := f.service.SearchLeagues(ctx, "", 1, 20); !errors.Is(err, ErrQueryDisabled) {
		t.Fatalf("empty search should be disabled, got %v", err)
	}
}

func TestSearchSeasonsMatchesLabel(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	countryID := f.seedCountry(t, "England", "ENG")
	league := resttest.Record{"name": "Premier League", "country": countryID, "is_active": true}
	f.server.Seed("leagues", league)
	leagueID, _ := league["id"].(string)
	f.server.Seed("seasons", resttest.Record{"label": "2024/25", "league": leagueID, "start_date": "2024-08-01", "end_date": "2025-05-31", "is_current": true})
	f.server.Seed("seasons", resttest.Record{"label": "2023/24", "league": leagueID, "start_date": "2023-08-01", "end_date": "2024-05-31", "is_current": false})

	env, err := f.service.SearchSeasons(ctx, "2024/25", 1, 20)
	if err != nil {
		t.Fatalf("search seasons: %v", err)
	}
	if env.Count != 1 || env.Results[0].Label != "2024/25" {
		t.Fatalf("search envelope = %+v", env)
	}

	if _, err := f.service.SearchSeasons(ctx, "", 1, 20); !errors.Is(err, ErrQueryDisabled) {
		t.Fatalf("empty season search should be disabled, got %v", err)
	}
}

func TestDetailNestsRelations(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	countryID := f.seedCountry(t, "England", "ENG")
	rec := resttest.Record{"name": "Premier League", "country": countryID, "is_active": true}
	f.server.Seed("leagues", rec)
	leagueID, _ := rec["id"].(string)

	league, err := f.service.League(ctx, leagueID)
	if err != nil {
		t.Fatalf("league detail: %v", err)
	}
	if league.Country.ID != countryID || league.Country.Name != "England" {
		t.Fatalf("nested country = %+v", league.Country)
	}
}

func TestCreateValidationSurfacesFieldErrors(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateLeague(ctx, domain.CreateLeague{Name: "", CountryID: ""})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %T", err)
	}
	if len(apiErr.Fields["name"]) == 0 || len(apiErr.Fields["country"]) == 0 {
		t.Fatalf("fields = %+v", apiErr.Fields)
	}
}

func TestCreateDuplicateConflicts(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	countryID := f.seedCountry(t, "England", "ENG")
	f.server.Seed("leagues", resttest.Record{"name": "Premier League", "country": countryID, "is_active": true})

	_, err := f.service.CreateLeague(ctx, domain.CreateLeague{Name: "Premier League", CountryID: countryID, IsActive: true})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate name+country, got %v", err)
	}
}
