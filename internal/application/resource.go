package application

import (
	"context"
	"net/url"

	"github.com/matchforge/sportadmin/internal/adapters/rest"
	"github.com/matchforge/sportadmin/internal/domain"
)

// listParams is what every resource-specific parameter set must provide:
// a query-string rendering. The struct itself doubles as the cache-key
// filter object.
type listParams interface {
	Values() url.Values
}

// resourceClient is the shared CRUD surface every entity service is built
// on. L is the denormalized list-item shape, D the detail shape, C and U the
// create and update payloads. It is stateless: no cache, no retries, errors
// pass through from the transport unchanged.
type resourceClient[L, D, C, U any] struct {
	rest *rest.Client
	base string
}

func (r resourceClient[L, D, C, U]) getAll(ctx context.Context, params listParams) (domain.Envelope[L], error) {
	var env domain.Envelope[L]
	var v url.Values
	if params != nil {
		v = params.Values()
	}
	err := r.rest.Get(ctx, r.base+"/", v, &env)
	return env, err
}

func (r resourceClient[L, D, C, U]) getByID(ctx context.Context, id string) (D, error) {
	var out D
	err := r.rest.Get(ctx, r.base+"/"+id+"/", nil, &out)
	return out, err
}

func (r resourceClient[L, D, C, U]) create(ctx context.Context, payload C) (D, error) {
	var out D
	err := r.rest.Post(ctx, r.base+"/", payload, &out)
	return out, err
}

// update is full-replacement PUT: the server may reset any omitted mutable
// field to its default. Partial changes belong to patch.
func (r resourceClient[L, D, C, U]) update(ctx context.Context, id string, payload U) (D, error) {
	var out D
	err := r.rest.Put(ctx, r.base+"/"+id+"/", payload, &out)
	return out, err
}

func (r resourceClient[L, D, C, U]) patch(ctx context.Context, id string, payload U) (D, error) {
	var out D
	err := r.rest.Patch(ctx, r.base+"/"+id+"/", payload, &out)
	return out, err
}

func (r resourceClient[L, D, C, U]) delete(ctx context.Context, id string) error {
	return r.rest.Delete(ctx, r.base+"/"+id+"/")
}

func (r resourceClient[L, D, C, U]) getActive(ctx context.Context) ([]L, error) {
	var out []L
	err := r.rest.Get(ctx, r.base+"/active/", nil, &out)
	return out, err
}

func (r resourceClient[L, D, C, U]) byRelation(ctx context.Context, relation, relatedID string) ([]L, error) {
	var out []L
	err := r.rest.Get(ctx, r.base+"/by-"+relation+"/"+relatedID+"/", nil, &out)
	return out, err
}
