package naming

import (
	"github.com/remvst/asset-catalog/api"
)

// Registry tracks which raw name claimed each generated identifier within
// one scope (one object level, or the import alias namespace). It is meant
// for sequential use during a single emission.
type Registry struct {
	scope  string
	owners map[string]string // identifier → raw name that produced it
}

// NewRegistry creates an empty registry. scope names the category in errors.
func NewRegistry(scope string) *Registry {
	return &Registry{
		scope:  scope,
		owners: make(map[string]string),
	}
}

// Claim records that raw produces id. Claiming an id again from the same raw
// name is allowed; claiming it from a different one is a duplicate.
func (r *Registry) Claim(id, raw string) error {
	if id == "" {
		return &api.AssetError{
			Kind:     api.ErrInvalidIdentifier,
			Category: r.scope,
			Key:      raw,
		}
	}
	if owner, ok := r.owners[id]; ok && owner != raw {
		return &api.AssetError{
			Kind:     api.ErrDuplicateIdentifier,
			Category: r.scope,
			Key:      id,
			Paths:    []string{owner, raw},
		}
	}
	r.owners[id] = raw
	return nil
}

// Owner returns the raw name that claimed id.
func (r *Registry) Owner(id string) (string, bool) {
	raw, ok := r.owners[id]
	return raw, ok
}
