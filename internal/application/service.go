// Package application is the cache-aware data-access core: typed entity
// services over the REST transport, the cache-key scheme, and the
// query/mutation layer that keeps the shared cache coherent.
package application

import (
	"github.com/matchforge/sportadmin/internal/adapters/rest"
	"github.com/matchforge/sportadmin/internal/ports"
)

// Service is the SDK entrypoint. Reads go through the cache (fresh values
// are served without a network call, stale ones as placeholders while a
// refetch runs); mutations apply the optimistic-update protocol and keep
// list entries coherent by staleness marking.
type Service struct {
	countries *CountryService
	leagues   *LeagueService
	teams     *TeamService
	seasons   *SeasonService

	querier *Querier
}

func NewService(rc *rest.Client, store ports.CacheStore) *Service {
	return &Service{
		countries: newCountryService(rc),
		leagues:   newLeagueService(rc),
		teams:     newTeamService(rc),
		seasons:   newSeasonService(rc),
		querier:   NewQuerier(store),
	}
}

// Querier exposes the invalidation primitives for callers that need a
// manual refetch (mark stale, then resolve again).
func (s *Service) Querier() *Querier {
	return s.querier
}

// listOptions computes Resolve options for a paginated list: when the call
// only moved one page forward, the previous page's entry serves as
// placeholder data until the new page lands.
func listOptions(r Resource, page int, previous any) QueryOptions {
	if page <= 1 {
		return QueryOptions{}
	}
	key := ListKey(r, previous)
	return QueryOptions{PlaceholderKey: &key}
}
