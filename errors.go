// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import "fmt"

// AbstractInstantiationError occurs when the selected environment is backed
// by an abstract base schema. Base schemas only exist to be extended and can
// never be resolved directly.
type AbstractInstantiationError struct {
	Code string
}

// Error implements the error interface.
func (e AbstractInstantiationError) Error() string {
	return fmt.Sprintf("environment %q is backed by an abstract schema and cannot be resolved directly", e.Code)
}

// UnknownEnvironmentError occurs when the environment selector names a code
// with no registered environment.
type UnknownEnvironmentError struct {
	Code string
}

// Error implements the error interface.
func (e UnknownEnvironmentError) Error() string {
	if e.Code == "" {
		return "no environment selected: set the selector variable or configure a default code"
	}
	return fmt.Sprintf("no environment registered for code %q", e.Code)
}
