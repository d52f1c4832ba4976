package application

import (
	"context"

	"github.com/matchforge/sportadmin/internal/adapters/rest"
	"github.com/matchforge/sportadmin/internal/domain"
)

// SeasonService is the stateless CRUD surface for seasons.
type SeasonService struct {
	c resourceClient[domain.SeasonListItem, domain.Season, domain.CreateSeason, domain.UpdateSeason]
}

func newSeasonService(rc *rest.Client) *SeasonService {
	return &SeasonService{c: resourceClient[domain.SeasonListItem, domain.Season, domain.CreateSeason, domain.UpdateSeason]{
		rest: rc,
		base: "/api/seasons",
	}}
}

func (s *SeasonService) GetAll(ctx context.Context, p SeasonListParams) (domain.Envelope[domain.SeasonListItem], error) {
	return s.c.getAll(ctx, p)
}

func (s *SeasonService) GetByID(ctx context.Context, id string) (domain.Season, error) {
	return s.c.getByID(ctx, id)
}

func (s *SeasonService) Create(ctx context.Context, payload domain.CreateSeason) (domain.Season, error) {
	return s.c.create(ctx, payload)
}

func (s *SeasonService) Update(ctx context.Context, id string, payload domain.UpdateSeason) (domain.Season, error) {
	return s.c.update(ctx, id, payload)
}

func (s *SeasonService) Patch(ctx context.Context, id string, payload domain.UpdateSeason) (domain.Season, error) {
	return s.c.patch(ctx, id, payload)
}

func (s *SeasonService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

func (s *SeasonService) GetByLeague(ctx context.Context, leagueID string) ([]domain.SeasonListItem, error) {
	return s.c.byRelation(ctx, "league", leagueID)
}

func (s *SeasonService) Search(ctx context.Context, query string, page, pageSize int) (domain.Envelope[domain.SeasonListItem], error) {
	return s.c.getAll(ctx, SeasonListParams{ListParams: ListParams{Page: page, PageSize: pageSize, Search: query}})
}

func (s *Service) SeasonList(ctx context.Context, p SeasonListParams) (domain.Envelope[domain.SeasonListItem], error) {
	prev := p
	prev.Page = p.Page - 1
	return Resolve(ctx, s.querier, ListKey(ResourceSeasons, p),
		func(ctx context.Context) (domain.Envelope[domain.SeasonListItem], error) {
			return s.seasons.GetAll(ctx, p)
		},
		listOptions(ResourceSeasons, p.Page, prev))
}

func (s *Service) Season(ctx context.Context, id string) (domain.Season, error) {
	return Resolve(ctx, s.querier, DetailKey(ResourceSeasons, id),
		func(ctx context.Context) (domain.Season, error) {
			return s.seasons.GetByID(ctx, id)
		},
		QueryOptions{Disabled: id == ""})
}

func (s *Service) SeasonsByLeague(ctx context.Context, leagueID string) ([]domain.SeasonListItem, error) {
	return Resolve(ctx, s.querier, RelationKey(ResourceSeasons, "league", leagueID),
		func(ctx context.Context) ([]domain.SeasonListItem, error) {
			return s.seasons.GetByLeague(ctx, leagueID)
		},
		QueryOptions{Disabled: leagueID == ""})
}

// SearchSeasons matches against the season label. Empty queries are
// disabled rather than swallowed server-side.
func (s *Service) SearchSeasons(ctx context.Context, query string, page, pageSize int) (domain.Envelope[domain.SeasonListItem], error) {
	p := SeasonListParams{ListParams: ListParams{Page: page, PageSize: pageSize, Search: query}}
	return Resolve(ctx, s.querier, ListKey(ResourceSeasons, p),
		func(ctx context.Context) (domain.Envelope[domain.SeasonListItem], error) {
			return s.seasons.Search(ctx, query, page, pageSize)
		},
		QueryOptions{Disabled: query == ""})
}

func (s *Service) CreateSeason(ctx context.Context, payload domain.CreateSeason) (domain.Season, error) {
	return CreateMutation(ctx, s.querier, ResourceSeasons, func(ctx context.Context) (domain.Season, error) {
		return s.seasons.Create(ctx, payload)
	})
}

func (s *Service) UpdateSeason(ctx context.Context, id string, payload domain.UpdateSeason) (domain.Season, error) {
	return OptimisticUpdate(ctx, s.querier, ResourceSeasons, id,
		func(prev domain.Season) domain.Season { return mergeSeason(prev, payload) },
		func(ctx context.Context) (domain.Season, error) {
			return s.seasons.Update(ctx, id, payload)
		})
}

func (s *Service) PatchSeason(ctx context.Context, id string, payload domain.UpdateSeason) (domain.Season, error) {
	return OptimisticUpdate(ctx, s.querier, ResourceSeasons, id,
		func(prev domain.Season) domain.Season { return mergeSeason(prev, payload) },
		func(ctx context.Context) (domain.Season, error) {
			return s.seasons.Patch(ctx, id, payload)
		})
}

func (s *Service) DeleteSeason(ctx context.Context, id string) error {
	return DeleteMutation(ctx, s.querier, ResourceSeasons, id, func(ctx context.Context) error {
		return s.seasons.Delete(ctx, id)
	})
}

func mergeSeason(prev domain.Season, payload domain.UpdateSeason) domain.Season {
	out := prev
	if payload.Label != nil {
		out.Label = *payload.Label
	}
	if payload.LeagueID != nil {
		out.League.ID = *payload.LeagueID
	}
	if payload.StartDate != nil {
		out.StartDate = *payload.StartDate
	}
	if payload.EndDate != nil {
		out.EndDate = *payload.EndDate
	}
	if payload.IsCurrent != nil {
		out.IsCurrent = *payload.IsCurrent
	}
	return out
}
