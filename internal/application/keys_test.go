package application

import (
	"testing"

	"github.com/matchforge/sportadmin/internal/ports"
)

func TestListKeyDeterminism(t *testing.T) {
	t.Parallel()

	p := LeagueListParams{ListParams: ListParams{Page: 2, PageSize: 20, Search: "premier"}, CountryID: "7"}
	if ListKey(ResourceLeagues, p) != ListKey(ResourceLeagues, p) {
		t.Fatalf("identical params produced different keys")
	}
}

func TestListKeyOrderIndependence(t *testing.T) {
	t.Parallel()

	a := ListKey(ResourceLeagues, map[string]any{"a": 1, "b": 2})
	b := ListKey(ResourceLeagues, map[string]any{"b": 2, "a": 1})
	if a != b {
		t.Fatalf("key depends on filter insertion order: %q vs %q", a.Identity, b.Identity)
	}
}

func TestListKeyZeroValuesCollapse(t *testing.T) {
	t.Parallel()

	empty := ListKey(ResourceTeams, TeamListParams{})
	if nilKey := ListKey(ResourceTeams, nil); empty != nilKey {
		t.Fatalf("zero params %q should equal nil params %q", empty.Identity, nilKey.Identity)
	}
	if empty.Identity != "{}" {
		t.Fatalf("empty filter identity = %q, want {}", empty.Identity)
	}
}

func TestListAndDetailKeysNeverCollide(t *testing.T) {
	t.Parallel()

	ids := []string{"", "{}", "1", "list", `{"page":1}`}
	for _, id := range ids {
		list := ListKey(ResourceCountries, nil)
		detail := DetailKey(ResourceCountries, id)
		if list == detail {
			t.Fatalf("list key collided with detail key for id %q", id)
		}
	}
}

func TestRelationKeyIsListScoped(t *testing.T) {
	t.Parallel()

	key := RelationKey(ResourceLeagues, "country", "42")
	if key.Kind != ports.KindList {
		t.Fatalf("relation key kind = %q, want %q", key.Kind, ports.KindList)
	}
	if key.Resource != string(ResourceLeagues) {
		t.Fatalf("relation key resource = %q", key.Resource)
	}
	if key == ListKey(ResourceLeagues, nil) {
		t.Fatalf("relation key must not collide with the unfiltered list key")
	}
}

func TestRelationKeyDistinctFromFilteredList(t *testing.T) {
	t.Parallel()

	// A by-country read caches a bare slice; a country-filtered list caches
	// an envelope. Their keys must differ or each read clobbers the other.
	relation := RelationKey(ResourceLeagues, "country", "1")
	filtered := ListKey(ResourceLeagues, LeagueListParams{CountryID: "1"})
	if relation == filtered {
		t.Fatalf("relation key %q collides with filtered list key %q", relation.Identity, filtered.Identity)
	}

	if byLeague := RelationKey(ResourceTeams, "league", "3"); byLeague == ListKey(ResourceTeams, TeamListParams{LeagueID: "3"}) {
		t.Fatalf("team relation key collides with the league list filter")
	}
	if bySeason := RelationKey(ResourceSeasons, "league", "3"); bySeason == ListKey(ResourceSeasons, SeasonListParams{LeagueID: "3"}) {
		t.Fatalf("season relation key collides with the league list filter")
	}
}

func TestDistinctFiltersDistinctKeys(t *testing.T) {
	t.Parallel()

	base := ListKey(ResourceCountries, CountryListParams{ListParams: ListParams{Page: 1, PageSize: 20}})
	searched := ListKey(ResourceCountries, CountryListParams{ListParams: ListParams{Page: 1, PageSize: 20, Search: "nonexistent-xyz"}})
	if base == searched {
		t.Fatalf("search filter did not change the key")
	}
}
