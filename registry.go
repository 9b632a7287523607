// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"fmt"

	"github.com/z5labs/stratum/schema"
)

// Environment couples a runtime environment code with the schema to resolve
// for it.
type Environment struct {
	// Code is the unique identifier the selector variable matches against.
	Code string

	// Name is a human readable identifier for the environment.
	Name string

	// Description documents what the environment is for.
	Description string

	// Schema declares the environment's fields.
	Schema *schema.Schema
}

// Registry maps environment codes to the schema resolved for them. Exactly
// one environment is selected per process.
type Registry struct {
	envs map[string]Environment
}

// NewRegistry constructs a Registry from the given environments. Duplicate
// codes and missing schemas are authoring errors reported immediately.
func NewRegistry(envs ...Environment) (*Registry, error) {
	reg := &Registry{
		envs: make(map[string]Environment, len(envs)),
	}
	for _, env := range envs {
		if env.Code == "" {
			return nil, fmt.Errorf("environment %q must declare a code", env.Name)
		}
		if env.Schema == nil {
			return nil, fmt.Errorf("environment %q must declare a schema", env.Code)
		}
		if _, ok := reg.envs[env.Code]; ok {
			return nil, fmt.Errorf("environment code %q registered more than once", env.Code)
		}
		reg.envs[env.Code] = env
	}
	return reg, nil
}

// Lookup returns the environment registered for code.
func (r *Registry) Lookup(code string) (Environment, bool) {
	env, ok := r.envs[code]
	return env, ok
}
