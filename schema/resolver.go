// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"fmt"
	"strings"
)

// Unset sentinels. A layer may set a field to one of these placeholder values
// to document that the real value is environment or user specific. Resolvers
// treat them exactly like an absent value and substitute their computed
// default instead.
const (
	EnvSpecificOverride  = "ENV_SPECIFIC_OVERRIDE"
	UserSpecificOverride = "USER_SPECIFIC_OVERRIDE"
)

// IsUnset reports whether v carries no usable value: nil or one of the unset
// sentinels.
func IsUnset(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && (s == EnvSpecificOverride || s == UserSpecificOverride)
}

// Lookup is an immutable view of field values resolved so far. During
// resolution it only contains fields which precede the resolver's own field;
// after resolution it is the full plain and derived value set.
type Lookup interface {
	// Get returns the resolved value for name.
	Get(name string) (any, bool)

	// Values returns a copy of every resolved value keyed by field name.
	Values() map[string]any
}

// ResolverContext carries the inputs a derived field is resolved from.
type ResolverContext struct {
	// Field is the name of the field being resolved.
	Field string

	// Incoming is the field's value after every override layer has been
	// applied, or nil when no layer supplied one.
	Incoming any

	// Resolved holds the final values of every field resolved before this
	// one.
	Resolved Lookup
}

// Resolver produces a derived field's final value. Implementations must be
// pure functions of the given context.
type Resolver interface {
	Resolve(ResolverContext) (any, error)
}

// ResolverFunc is a functional implementation of the Resolver interface.
type ResolverFunc func(ResolverContext) (any, error)

// Resolve implements the Resolver interface.
func (f ResolverFunc) Resolve(ctx ResolverContext) (any, error) {
	return f(ctx)
}

// DefaultFactory returns a Resolver that honors overrides: an incoming value
// which is set and not an unset sentinel is returned verbatim, letting any
// layer outrank the computation; otherwise compute supplies the value from
// the fields resolved so far.
func DefaultFactory(compute func(Lookup) (any, error)) Resolver {
	return ResolverFunc(func(ctx ResolverContext) (any, error) {
		if !IsUnset(ctx.Incoming) {
			return ctx.Incoming, nil
		}
		return compute(ctx.Resolved)
	})
}

// Join returns a Resolver that, when the field is not overridden, composes
// the named fields' final values with sep between them. Every named field
// must resolve before the derived field; referencing one that does not is an
// authoring error reported at resolution time.
func Join(sep string, names ...string) Resolver {
	return ResolverFunc(func(ctx ResolverContext) (any, error) {
		if !IsUnset(ctx.Incoming) {
			return ctx.Incoming, nil
		}
		parts := make([]string, len(names))
		for i, name := range names {
			v, ok := ctx.Resolved.Get(name)
			if !ok {
				return nil, InvalidFieldDeclarationError{
					Field:  ctx.Field,
					Reason: fmt.Sprintf("composes from field %q which is not resolved before it", name),
				}
			}
			parts[i] = fmt.Sprint(v)
		}
		return strings.Join(parts, sep), nil
	})
}
