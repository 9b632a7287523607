// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"fmt"
	"strings"
)

// FromArgs returns a Source over explicit, constructor style arguments. It
// is the highest precedence layer.
func FromArgs(args map[string]any) Source {
	m := make(Map, len(args))
	for k, v := range args {
		m[k] = v
	}
	return m
}

// MalformedPairError occurs when a command line override token is not of
// the form KEY=VALUE.
type MalformedPairError struct {
	Token string
}

// Error implements the error interface.
func (e MalformedPairError) Error() string {
	return fmt.Sprintf("malformed override token %q: expected KEY=VALUE", e.Token)
}

// ParseConfigFlag parses the value of a --config flag, one or more space
// delimited KEY=VALUE pairs, into a Map. The result feeds the same explicit
// argument layer as FromArgs; a caller is expected to use one of the two
// paths per invocation, not both.
func ParseConfigFlag(s string) (Map, error) {
	m := make(Map)
	for _, tok := range strings.Fields(s) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok || k == "" {
			return nil, MalformedPairError{Token: tok}
		}
		m[k] = v
	}
	return m, nil
}
