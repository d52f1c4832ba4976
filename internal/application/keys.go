package application

import (
	"encoding/json"

	"github.com/matchforge/sportadmin/internal/ports"
)

// Resource names the cache namespaces, one per entity type.
type Resource string

const (
	ResourceCountries Resource = "countries"
	ResourceLeagues   Resource = "leagues"
	ResourceTeams     Resource = "teams"
	ResourceSeasons   Resource = "seasons"
)

// ListKey builds the cache key for a filtered list query. The filter set is
// reduced to canonical JSON (sorted keys, zero values dropped), so two
// deeply-equal filter sets always produce the same key regardless of field
// order, and a nil filter equals an empty one.
func ListKey(r Resource, filters any) ports.Key {
	return ports.Key{Resource: string(r), Kind: ports.KindList, Identity: canonicalIdentity(filters)}
}

// DetailKey builds the cache key for a single entity. Detail keys never
// collide with list keys: the kind token differs.
func DetailKey(r Resource, id string) ports.Key {
	return ports.Key{Resource: string(r), Kind: ports.KindDetail, Identity: id}
}

// RelationKey builds the key for a "by parent relation" query. It is
// list-scoped on purpose: any bulk invalidation of the resource's lists must
// cover relation-scoped results too. The "by_" prefix keeps relation
// identities apart from list filters on the same field, which cache a
// different value shape (bare slice vs envelope).
func RelationKey(r Resource, relation, relatedID string) ports.Key {
	return ListKey(r, map[string]string{"by_" + relation: relatedID})
}

// ActiveKey is the list-scoped key for the non-paginated active-only query.
func ActiveKey(r Resource) ports.Key {
	return ListKey(r, map[string]bool{"active_only": true})
}

// canonicalIdentity serializes a filter value deterministically. The value
// is round-tripped through generic JSON: encoding/json sorts map keys, and
// pruning null/zero members makes an omitted field equal an explicit zero
// under omitempty tags.
func canonicalIdentity(filters any) string {
	if filters == nil {
		return "{}"
	}
	raw, err := json.Marshal(filters)
	if err != nil {
		// Filter structs are plain data; an unmarshalable one is a
		// programming error. Fall back to a non-colliding literal.
		return "{}"
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return string(raw)
	}
	pruned := pruneEmpty(generic)
	if pruned == nil {
		return "{}"
	}
	out, err := json.Marshal(pruned)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// pruneEmpty strips null members and empty objects so structurally-equal
// filter sets serialize identically.
func pruneEmpty(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, member := range m {
		if member == nil {
			continue
		}
		if nested := pruneEmpty(member); nested != nil {
			if nm, ok := nested.(map[string]any); ok && len(nm) == 0 {
				continue
			}
			out[k] = nested
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
