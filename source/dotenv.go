// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"fmt"

	"github.com/joho/godotenv"
)

// Dotenv represents a Source backed by a KEY=VALUE per line file.
type Dotenv struct {
	path string
}

// FromDotenv returns a Source which will apply its values from the dotenv
// file at the given path. The file is read when the source is applied.
func FromDotenv(path string) Dotenv {
	return Dotenv{path: path}
}

// SourceReadError occurs when a supplied override source cannot be read.
// It is fatal for the resolution attempt and is never retried.
type SourceReadError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e SourceReadError) Error() string {
	return fmt.Sprintf("failed to read override source %q: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e SourceReadError) Unwrap() error {
	return e.Cause
}

// Apply implements the Source interface.
func (src Dotenv) Apply(store Store) error {
	m, err := godotenv.Read(src.path)
	if err != nil {
		return SourceReadError{
			Path:  src.path,
			Cause: err,
		}
	}
	for k, v := range m {
		err := store.Set(k, v)
		if err != nil {
			return err
		}
	}
	return nil
}
