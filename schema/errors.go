// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import "fmt"

// InvalidFieldDeclarationError occurs when a field is authored in a way the
// engine cannot resolve, for example a derived field declaring a non-nil
// static default, or a resolver composing from a field that has not been
// declared before it.
type InvalidFieldDeclarationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e InvalidFieldDeclarationError) Error() string {
	return fmt.Sprintf("invalid declaration for field %q: %s", e.Field, e.Reason)
}

// AmbiguousOverrideShadowingError occurs when a schema redeclares an
// inherited opaque field as a plain or derived field. The inherited accessor
// would win at read time and the redeclared value would silently never take
// effect, so the declaration is rejected outright.
type AmbiguousOverrideShadowingError struct {
	Field string
	Code  string
}

// Error implements the error interface.
func (e AmbiguousOverrideShadowingError) Error() string {
	return fmt.Sprintf(
		"field %q in schema %q redeclares an inherited computed field as a stored value which the inherited accessor would shadow",
		e.Field,
		e.Code,
	)
}
