// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"os"
	"strings"
)

// Env represents a Source where its underlying values are extracted from
// environment variables. The environment is read when the source is applied,
// never earlier, so a fresh resolution always observes the current process
// environment.
type Env struct {
	environ func() []string
}

// FromEnv returns a Source which will apply its values from the environment
// variables available to the current process.
func FromEnv() Env {
	return Env{
		environ: os.Environ,
	}
}

// Apply implements the Source interface.
func (src Env) Apply(store Store) error {
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		err := store.Set(k, v)
		if err != nil {
			return err
		}
	}
	return nil
}
