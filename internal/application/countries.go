package application

import (
	"context"

	"github.com/matchforge/sportadmin/internal/adapters/rest"
	"github.com/matchforge/sportadmin/internal/domain"
)

// CountryService is the stateless CRUD surface for countries. It performs
// no caching; the cached operations live on Service.
type CountryService struct {
	c resourceClient[domain.CountryListItem, domain.Country, domain.CreateCountry, domain.UpdateCountry]
}

func newCountryService(rc *rest.Client) *CountryService {
	return &CountryService{c: resourceClient[domain.CountryListItem, domain.Country, domain.CreateCountry, domain.UpdateCountry]{
		rest: rc,
		base: "/api/countries",
	}}
}

func (s *CountryService) GetAll(ctx context.Context, p CountryListParams) (domain.Envelope[domain.CountryListItem], error) {
	return s.c.getAll(ctx, p)
}

func (s *CountryService) GetByID(ctx context.Context, id string) (domain.Country, error) {
	return s.c.getByID(ctx, id)
}

func (s *CountryService) Create(ctx context.Context, payload domain.CreateCountry) (domain.Country, error) {
	return s.c.create(ctx, payload)
}

func (s *CountryService) Update(ctx context.Context, id string, payload domain.UpdateCountry) (domain.Country, error) {
	return s.c.update(ctx, id, payload)
}

func (s *CountryService) Patch(ctx context.Context, id string, payload domain.UpdateCountry) (domain.Country, error) {
	return s.c.patch(ctx, id, payload)
}

func (s *CountryService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

func (s *CountryService) GetActive(ctx context.Context) ([]domain.CountryListItem, error) {
	return s.c.getActive(ctx)
}

func (s *CountryService) Search(ctx context.Context, query string, page, pageSize int) (domain.Envelope[domain.CountryListItem], error) {
	return s.c.getAll(ctx, CountryListParams{ListParams: ListParams{Page: page, PageSize: pageSize, Search: query}})
}

// CountryList is the cached list read.
func (s *Service) CountryList(ctx context.Context, p CountryListParams) (domain.Envelope[domain.CountryListItem], error) {
	prev := p
	prev.Page = p.Page - 1
	return Resolve(ctx, s.querier, ListKey(ResourceCountries, p),
		func(ctx context.Context) (domain.Envelope[domain.CountryListItem], error) {
			return s.countries.GetAll(ctx, p)
		},
		listOptions(ResourceCountries, p.Page, prev))
}

// Country is the cached detail read. An empty id disables the query.
func (s *Service) Country(ctx context.Context, id string) (domain.Country, error) {
	return Resolve(ctx, s.querier, DetailKey(ResourceCountries, id),
		func(ctx context.Context) (domain.Country, error) {
			return s.countries.GetByID(ctx, id)
		},
		QueryOptions{Disabled: id == ""})
}

func (s *Service) ActiveCountries(ctx context.Context) ([]domain.CountryListItem, error) {
	return Resolve(ctx, s.querier, ActiveKey(ResourceCountries),
		func(ctx context.Context) ([]domain.CountryListItem, error) {
			return s.countries.GetActive(ctx)
		},
		QueryOptions{})
}

// SearchCountries is cached per (query, page) pair. Empty queries are
// disabled here rather than swallowed server-side.
func (s *Service) SearchCountries(ctx context.Context, query string, page, pageSize int) (domain.Envelope[domain.CountryListItem], error) {
	p := CountryListParams{ListParams: ListParams{Page: page, PageSize: pageSize, Search: query}}
	return Resolve(ctx, s.querier, ListKey(ResourceCountries, p),
		func(ctx context.Context) (domain.Envelope[domain.CountryListItem], error) {
			return s.countries.Search(ctx, query, page, pageSize)
		},
		QueryOptions{Disabled: query == ""})
}

func (s *Service) CreateCountry(ctx context.Context, payload domain.CreateCountry) (domain.Country, error) {
	return CreateMutation(ctx, s.querier, ResourceCountries, func(ctx context.Context) (domain.Country, error) {
		return s.countries.Create(ctx, payload)
	})
}

// UpdateCountry is full-replacement PUT; every mutable field of payload
// must be populated.
func (s *Service) UpdateCountry(ctx context.Context, id string, payload domain.UpdateCountry) (domain.Country, error) {
	return OptimisticUpdate(ctx, s.querier, ResourceCountries, id,
		func(prev domain.Country) domain.Country { return mergeCountry(prev, payload) },
		func(ctx context.Context) (domain.Country, error) {
			return s.countries.Update(ctx, id, payload)
		})
}

func (s *Service) PatchCountry(ctx context.Context, id string, payload domain.UpdateCountry) (domain.Country, error) {
	return OptimisticUpdate(ctx, s.querier, ResourceCountries, id,
		func(prev domain.Country) domain.Country { return mergeCountry(prev, payload) },
		func(ctx context.Context) (domain.Country, error) {
			return s.countries.Patch(ctx, id, payload)
		})
}

func (s *Service) DeleteCountry(ctx context.Context, id string) error {
	return DeleteMutation(ctx, s.querier, ResourceCountries, id, func(ctx context.Context) error {
		return s.countries.Delete(ctx, id)
	})
}

// mergeCountry is the speculative merge: nil payload fields leave the
// previous value untouched, mirroring PATCH semantics server-side.
func mergeCountry(prev domain.Country, payload domain.UpdateCountry) domain.Country {
	out := prev
	if payload.Name != nil {
		out.Name = *payload.Name
	}
	if payload.Code != nil {
		out.Code = *payload.Code
	}
	if payload.FlagURL != nil {
		out.FlagURL = *payload.FlagURL
	}
	if payload.IsActive != nil {
		out.IsActive = *payload.IsActive
	}
	return out
}
