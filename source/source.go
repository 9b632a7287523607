// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package source defines the override layers a configuration is resolved from.
//
// A Source serializes itself into a flat key value Store. Sources are applied
// in order by Apply, so a later source's value for a field always wins over
// an earlier one. The resolution engine feeds Apply its layers ordered from
// lowest to highest precedence: schema defaults, dotenv file, process
// environment, explicit arguments.
package source

// Store represents a flat key value structure.
type Store interface {
	Set(name string, value any) error
}

// Source defines valid override sources as those who can serialize
// themselves into a key value like structure.
type Source interface {
	Apply(Store) error
}

// Map is an ordinary map[string]any but implements both the Source and
// Store interfaces.
type Map map[string]any

// Set implements the Store interface.
func (m Map) Set(name string, value any) error {
	m[name] = value
	return nil
}

// Apply implements the Source interface.
func (m Map) Apply(store Store) error {
	for k, v := range m {
		err := store.Set(k, v)
		if err != nil {
			return err
		}
	}
	return nil
}

// Apply serializes the given sources into a single Map. Subsequent sources
// override previous sources. Nil sources are skipped.
func Apply(srcs ...Source) (Map, error) {
	store := make(Map)
	for _, src := range srcs {
		if src == nil {
			continue
		}
		err := src.Apply(store)
		if err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Filter returns a Source which only forwards keys allowed by the given
// predicate. The engine uses it to keep override layers away from fields
// they must never touch, e.g. opaque computed fields.
func Filter(src Source, allow func(string) bool) Source {
	return filtered{
		src:   src,
		allow: allow,
	}
}

type filtered struct {
	src   Source
	allow func(string) bool
}

// Apply implements the Source interface.
func (f filtered) Apply(store Store) error {
	return f.src.Apply(filteredStore{
		store: store,
		allow: f.allow,
	})
}

type filteredStore struct {
	store Store
	allow func(string) bool
}

// Set implements the Store interface. Disallowed keys are silently dropped.
func (s filteredStore) Set(name string, value any) error {
	if !s.allow(name) {
		return nil
	}
	return s.store.Set(name, value)
}
