// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package exprfield implements derived field resolvers as expressions.
//
// The expression language is github.com/expr-lang/expr and the expression
// environment is the set of field values resolved before the derived field,
// keyed by field name:
//
//	schema.Derived("POSTGRES_DSN", nil,
//	    exprfield.New(`"postgres://" + POSTGRES_HOST + ":" + POSTGRES_PORT`),
//	)
//
// Overrides still outrank the expression: a value supplied by any layer is
// honored verbatim unless it is one of the unset sentinels.
package exprfield

import (
	"fmt"

	"github.com/z5labs/stratum/schema"

	"github.com/expr-lang/expr"
)

// New returns a resolver that computes the field by evaluating expression
// against the already resolved values. Compilation happens per resolution
// with the concrete value set as the environment, so an expression
// referencing a field that is not resolved before it fails fast as a
// declaration error instead of yielding a silent nil.
func New(expression string) schema.Resolver {
	return schema.ResolverFunc(func(ctx schema.ResolverContext) (any, error) {
		if !schema.IsUnset(ctx.Incoming) {
			return ctx.Incoming, nil
		}
		env := ctx.Resolved.Values()

		program, err := expr.Compile(expression, expr.Env(env))
		if err != nil {
			return nil, schema.InvalidFieldDeclarationError{
				Field:  ctx.Field,
				Reason: fmt.Sprintf("expression %q: %s", expression, err),
			}
		}
		v, err := expr.Run(program, env)
		if err != nil {
			return nil, schema.InvalidFieldDeclarationError{
				Field:  ctx.Field,
				Reason: fmt.Sprintf("expression %q: %s", expression, err),
			}
		}
		return v, nil
	})
}
