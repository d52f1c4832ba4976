package application

import (
	"context"

	"github.com/matchforge/sportadmin/internal/adapters/rest"
	"github.com/matchforge/sportadmin/internal/domain"
)

// LeagueService is the stateless CRUD surface for leagues.
type LeagueService struct {
	c resourceClient[domain.LeagueListItem, domain.League, domain.CreateLeague, domain.UpdateLeague]
}

func newLeagueService(rc *rest.Client) *LeagueService {
	return &LeagueService{c: resourceClient[domain.LeagueListItem, domain.League, domain.CreateLeague, domain.UpdateLeague]{
		rest: rc,
		base: "/api/leagues",
	}}
}

func (s *LeagueService) GetAll(ctx context.Context, p LeagueListParams) (domain.Envelope[domain.LeagueListItem], error) {
	return s.c.getAll(ctx, p)
}

func (s *LeagueService) GetByID(ctx context.Context, id string) (domain.League, error) {
	return s.c.getByID(ctx, id)
}

func (s *LeagueService) Create(ctx context.Context, payload domain.CreateLeague) (domain.League, error) {
	return s.c.create(ctx, payload)
}

func (s *LeagueService) Update(ctx context.Context, id string, payload domain.UpdateLeague) (domain.League, error) {
	return s.c.update(ctx, id, payload)
}

func (s *LeagueService) Patch(ctx context.Context, id string, payload domain.UpdateLeague) (domain.League, error) {
	return s.c.patch(ctx, id, payload)
}

func (s *LeagueService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

func (s *LeagueService) GetActive(ctx context.Context) ([]domain.LeagueListItem, error) {
	return s.c.getActive(ctx)
}

func (s *LeagueService) GetByCountry(ctx context.Context, countryID string) ([]domain.LeagueListItem, error) {
	return s.c.byRelation(ctx, "country", countryID)
}

func (s *LeagueService) Search(ctx context.Context, query string, page, pageSize int) (domain.Envelope[domain.LeagueListItem], error) {
	return s.c.getAll(ctx, LeagueListParams{ListParams: ListParams{Page: page, PageSize: pageSize, Search: query}})
}

func (s *Service) LeagueList(ctx context.Context, p LeagueListParams) (domain.Envelope[domain.LeagueListItem], error) {
	prev := p
	prev.Page = p.Page - 1
	return Resolve(ctx, s.querier, ListKey(ResourceLeagues, p),
		func(ctx context.Context) (domain.Envelope[domain.LeagueListItem], error) {
			return s.leagues.GetAll(ctx, p)
		},
		listOptions(ResourceLeagues, p.Page, prev))
}

func (s *Service) League(ctx context.Context, id string) (domain.League, error) {
	return Resolve(ctx, s.querier, DetailKey(ResourceLeagues, id),
		func(ctx context.Context) (domain.League, error) {
			return s.leagues.GetByID(ctx, id)
		},
		QueryOptions{Disabled: id == ""})
}

func (s *Service) ActiveLeagues(ctx context.Context) ([]domain.LeagueListItem, error) {
	return Resolve(ctx, s.querier, ActiveKey(ResourceLeagues),
		func(ctx context.Context) ([]domain.LeagueListItem, error) {
			return s.leagues.GetActive(ctx)
		},
		QueryOptions{})
}

// LeaguesByCountry is list-scoped: creating or mutating any league marks it
// stale along with every other league list.
func (s *Service) LeaguesByCountry(ctx context.Context, countryID string) ([]domain.LeagueListItem, error) {
	return Resolve(ctx, s.querier, RelationKey(ResourceLeagues, "country", countryID),
		func(ctx context.Context) ([]domain.LeagueListItem, error) {
			return s.leagues.GetByCountry(ctx, countryID)
		},
		QueryOptions{Disabled: countryID == ""})
}

func (s *Service) SearchLeagues(ctx context.Context, query string, page, pageSize int) (domain.Envelope[domain.LeagueListItem], error) {
	p := LeagueListParams{ListParams: ListParams{Page: page, PageSize: pageSize, Search: query}}
	return Resolve(ctx, s.querier, ListKey(ResourceLeagues, p),
		func(ctx context.Context) (domain.Envelope[domain.LeagueListItem], error) {
			return s.leagues.Search(ctx, query, page, pageSize)
		},
		QueryOptions{Disabled: query == ""})
}

func (s *Service) CreateLeague(ctx context.Context, payload domain.CreateLeague) (domain.League, error) {
	return CreateMutation(ctx, s.querier, ResourceLeagues, func(ctx context.Context) (domain.League, error) {
		return s.leagues.Create(ctx, payload)
	})
}

func (s *Service) UpdateLeague(ctx context.Context, id string, payload domain.UpdateLeague) (domain.League, error) {
	return OptimisticUpdate(ctx, s.querier, ResourceLeagues, id,
		func(prev domain.League) domain.League { return mergeLeague(prev, payload) },
		func(ctx context.Context) (domain.League, error) {
			return s.leagues.Update(ctx, id, payload)
		})
}

func (s *Service) PatchLeague(ctx context.Context, id string, payload domain.UpdateLeague) (domain.League, error) {
	return OptimisticUpdate(ctx, s.querier, ResourceLeagues, id,
		func(prev domain.League) domain.League { return mergeLeague(prev, payload) },
		func(ctx context.Context) (domain.League, error) {
			return s.leagues.Patch(ctx, id, payload)
		})
}

func (s *Service) DeleteLeague(ctx context.Context, id string) error {
	return DeleteMutation(ctx, s.querier, ResourceLeagues, id, func(ctx context.Context) error {
		return s.leagues.Delete(ctx, id)
	})
}

// mergeLeague leaves the nested country object alone when only the country
// id changed: the merge is allowed to be imprecise because the entry is
// marked stale after the mutation settles.
func mergeLeague(prev domain.League, payload domain.UpdateLeague) domain.League {
	out := prev
	if payload.Name != nil {
		out.Name = *payload.Name
	}
	if payload.ExternalID != nil {
		out.ExternalID = *payload.ExternalID
	}
	if payload.CountryID != nil {
		out.Country.ID = *payload.CountryID
	}
	if payload.LogoURL != nil {
		out.LogoURL = *payload.LogoURL
	}
	if payload.IsActive != nil {
		out.IsActive = *payload.IsActive
	}
	return out
}
