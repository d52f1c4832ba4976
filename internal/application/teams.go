package application

import (
	"context"

	"github.com/matchforge/sportadmin/internal/adapters/rest"
	"github.com/matchforge/sportadmin/internal/domain"
)

// TeamService is the stateless CRUD surface for teams.
type TeamService struct {
	c resourceClient[domain.TeamListItem, domain.Team, domain.CreateTeam, domain.UpdateTeam]
}

func newTeamService(rc *rest.Client) *TeamService {
	return &TeamService{c: resourceClient[domain.TeamListItem, domain.Team, domain.CreateTeam, domain.UpdateTeam]{
		rest: rc,
		base: "/api/teams",
	}}
}

func (s *TeamService) GetAll(ctx context.Context, p TeamListParams) (domain.Envelope[domain.TeamListItem], error) {
	return s.c.getAll(ctx, p)
}

func (s *TeamService) GetByID(ctx context.Context, id string) (domain.Team, error) {
	return s.c.getByID(ctx, id)
}

func (s *TeamService) Create(ctx context.Context, payload domain.CreateTeam) (domain.Team, error) {
	return s.c.create(ctx, payload)
}

func (s *TeamService) Update(ctx context.Context, id string, payload domain.UpdateTeam) (domain.Team, error) {
	return s.c.update(ctx, id, payload)
}

func (s *TeamService) Patch(ctx context.Context, id string, payload domain.UpdateTeam) (domain.Team, error) {
	return s.c.patch(ctx, id, payload)
}

func (s *TeamService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

func (s *TeamService) GetActive(ctx context.Context) ([]domain.TeamListItem, error) {
	return s.c.getActive(ctx)
}

func (s *TeamService) GetByLeague(ctx context.Context, leagueID string) ([]domain.TeamListItem, error) {
	return s.c.byRelation(ctx, "league", leagueID)
}

func (s *TeamService) Search(ctx context.Context, query string, page, pageSize int) (domain.Envelope[domain.TeamListItem], error) {
	return s.c.getAll(ctx, TeamListParams{ListParams: ListParams{Page: page, PageSize: pageSize, Search: query}})
}

func (s *Service) TeamList(ctx context.Context, p TeamListParams) (domain.Envelope[domain.TeamListItem], error) {
	prev := p
	prev.Page = p.Page - 1
	return Resolve(ctx, s.querier, ListKey(ResourceTeams, p),
		func(ctx context.Context) (domain.Envelope[domain.TeamListItem], error) {
			return s.teams.GetAll(ctx, p)
		},
		listOptions(ResourceTeams, p.Page, prev))
}

func (s *Service) Team(ctx context.Context, id string) (domain.Team, error) {
	return Resolve(ctx, s.querier, DetailKey(ResourceTeams, id),
		func(ctx context.Context) (domain.Team, error) {
			return s.teams.GetByID(ctx, id)
		},
		QueryOptions{Disabled: id == ""})
}

func (s *Service) ActiveTeams(ctx context.Context) ([]domain.TeamListItem, error) {
	return Resolve(ctx, s.querier, ActiveKey(ResourceTeams),
		func(ctx context.Context) ([]domain.TeamListItem, error) {
			return s.teams.GetActive(ctx)
		},
		QueryOptions{})
}

func (s *Service) TeamsByLeague(ctx context.Context, leagueID string) ([]domain.TeamListItem, error) {
	return Resolve(ctx, s.querier, RelationKey(ResourceTeams, "league", leagueID),
		func(ctx context.Context) ([]domain.TeamListItem, error) {
			return s.teams.GetByLeague(ctx, leagueID)
		},
		QueryOptions{Disabled: leagueID == ""})
}

func (s *Service) SearchTeams(ctx context.Context, query string, page, pageSize int) (domain.Envelope[domain.TeamListItem], error) {
	p := TeamListParams{ListParams: ListParams{Page: page, PageSize: pageSize, Search: query}}
	return Resolve(ctx, s.querier, ListKey(ResourceTeams, p),
		func(ctx context.Context) (domain.Envelope[domain.TeamListItem], error) {
			return s.teams.Search(ctx, query, page, pageSize)
		},
		QueryOptions{Disabled: query == ""})
}

func (s *Service) CreateTeam(ctx context.Context, payload domain.CreateTeam) (domain.Team, error) {
	return CreateMutation(ctx, s.querier, ResourceTeams, func(ctx context.Context) (domain.Team, error) {
		return s.teams.Create(ctx, payload)
	})
}

func (s *Service) UpdateTeam(ctx context.Context, id string, payload domain.UpdateTeam) (domain.Team, error) {
	return OptimisticUpdate(ctx, s.querier, ResourceTeams, id,
		func(prev domain.Team) domain.Team { return mergeTeam(prev, payload) },
		func(ctx context.Context) (domain.Team, error) {
			return s.teams.Update(ctx, id, payload)
		})
}

func (s *Service) PatchTeam(ctx context.Context, id string, payload domain.UpdateTeam) (domain.Team, error) {
	return OptimisticUpdate(ctx, s.querier, ResourceTeams, id,
		func(prev domain.Team) domain.Team { return mergeTeam(prev, payload) },
		func(ctx context.Context) (domain.Team, error) {
			return s.teams.Patch(ctx, id, payload)
		})
}

func (s *Service) DeleteTeam(ctx context.Context, id string) error {
	return DeleteMutation(ctx, s.querier, ResourceTeams, id, func(ctx context.Context) error {
		return s.teams.Delete(ctx, id)
	})
}

func mergeTeam(prev domain.Team, payload domain.UpdateTeam) domain.Team {
	out := prev
	if payload.Name != nil {
		out.Name = *payload.Name
	}
	if payload.ShortName != nil {
		out.ShortName = *payload.ShortName
	}
	if payload.ExternalID != nil {
		out.ExternalID = *payload.ExternalID
	}
	if payload.LeagueID != nil {
		out.League.ID = *payload.LeagueID
	}
	if payload.Venue != nil {
		out.Venue = *payload.Venue
	}
	if payload.FoundedYear != nil {
		out.FoundedYear = *payload.FoundedYear
	}
	if payload.LogoURL != nil {
		out.LogoURL = *payload.LogoURL
	}
	if payload.IsActive != nil {
		out.IsActive = *payload.IsActive
	}
	return out
}
