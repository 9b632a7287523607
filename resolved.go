// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"github.com/z5labs/stratum/schema"
)

// lookupMap is the mutable working set used while resolving. Handing it to
// resolvers as a schema.Lookup gives them the values resolved so far.
type lookupMap map[string]any

// Get implements the schema.Lookup interface.
func (m lookupMap) Get(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Values implements the schema.Lookup interface.
func (m lookupMap) Values() map[string]any {
	values := make(map[string]any, len(m))
	for k, v := range m {
		values[k] = v
	}
	return values
}

// Resolved is an immutable configuration snapshot. No component mutates it
// after resolution completes; a new snapshot only exists by invalidating the
// Loader's cache and resolving again.
type Resolved struct {
	env    Environment
	values lookupMap
	opaque map[string]schema.Accessor
}

// Environment returns the environment the snapshot was resolved for.
func (r *Resolved) Environment() Environment {
	return r.env
}

// Get returns the final value of a plain or derived field. Opaque fields are
// not part of the value mapping; read them with Opaque instead.
func (r *Resolved) Get(name string) (any, bool) {
	return r.values.Get(name)
}

// Values returns a copy of every plain and derived field's final value,
// suitable for dumping as an audit snapshot. Opaque field names are absent.
func (r *Resolved) Values() map[string]any {
	return r.values.Values()
}

// Opaque evaluates the named computed field against the snapshot. The
// accessor runs at read time, so it observes the final, post-override values
// of any fields it references. The second return value reports whether an
// opaque field with that name exists.
func (r *Resolved) Opaque(name string) (any, bool) {
	fn, ok := r.opaque[name]
	if !ok {
		return nil, false
	}
	return fn(r), true
}
