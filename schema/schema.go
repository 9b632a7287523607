// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema provides declarative field tables for configuration environments.
//
// A Schema is an ordered set of field declarations plus an optional parent,
// forming a linear inheritance chain. Each field is declared with exactly one
// of three kinds:
//
//   - Plain fields carry a static default and participate in every override layer.
//   - Computed (opaque) fields are zero-argument accessors evaluated at read
//     time. They never participate in override layers, validation or the
//     resolved value mapping.
//   - Derived fields carry a resolver which computes their value, during
//     resolution, from other fields' final values. Any override layer still
//     outranks the resolver.
//
// All authoring rules are enforced when a schema is constructed, not when it
// is first resolved.
package schema

import (
	"sync"
)

// Kind identifies how a field participates in resolution.
type Kind int

const (
	// KindPlain fields take their value purely from layered overrides.
	KindPlain Kind = iota
	// KindOpaque fields are computed accessors invisible to every override layer.
	KindOpaque
	// KindDerived fields are computed once, at resolution time, unless overridden.
	KindDerived
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindOpaque:
		return "opaque"
	case KindDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// Accessor computes an opaque field's value from the resolved snapshot it is
// read from. Accessors run at read time, so they observe final, post-override
// values of the fields they reference.
type Accessor func(Lookup) any

// Field is a single declaration within a Schema.
type Field struct {
	name     string
	kind     Kind
	def      any
	accessor Accessor
	resolver Resolver
}

// Plain declares a field whose value comes from layered overrides, starting
// from the given static default. A nil default declares the field with no
// base value.
func Plain(name string, def any) Field {
	return Field{
		name: name,
		kind: KindPlain,
		def:  def,
	}
}

// Computed declares an opaque field backed by the given accessor.
func Computed(name string, fn Accessor) Field {
	return Field{
		name:     name,
		kind:     KindOpaque,
		accessor: fn,
	}
}

// Derived declares a field whose value is produced by r during resolution.
// The static default must be nil; the resolver is the field's only default
// mechanism and a textual default alongside it is an authoring error.
func Derived(name string, def any, r Resolver) Field {
	return Field{
		name:     name,
		kind:     KindDerived,
		def:      def,
		resolver: r,
	}
}

// Name returns the field name.
func (f Field) Name() string {
	return f.name
}

// Kind returns how the field participates in resolution.
func (f Field) Kind() Kind {
	return f.kind
}

// Default returns the static default for plain fields. It is always nil for
// opaque and derived fields.
func (f Field) Default() any {
	return f.def
}

// Accessor returns the computed accessor for opaque fields.
func (f Field) Accessor() Accessor {
	return f.accessor
}

// Resolver returns the resolver for derived fields.
func (f Field) Resolver() Resolver {
	return f.resolver
}

// Option configures a Schema during construction.
type Option func(*Schema)

// Abstract marks the schema as a base which can only be extended, never
// resolved directly.
func Abstract() Option {
	return func(s *Schema) {
		s.abstract = true
	}
}

// Fields appends field declarations in the given order.
func Fields(fields ...Field) Option {
	return func(s *Schema) {
		s.decls = append(s.decls, fields...)
	}
}

// Schema is a declared set of fields with a unique environment code.
type Schema struct {
	code     string
	abstract bool
	parent   *Schema
	decls    []Field

	classifyOnce sync.Once
	fields       []Field
}

// New constructs a root Schema. Authoring errors are reported immediately.
func New(code string, opts ...Option) (*Schema, error) {
	s := &Schema{code: code}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// Extend constructs a Schema inheriting every declaration of s. Fields
// redeclared by the child replace the parent's kind and value outright, with
// one exception: redeclaring an inherited opaque field as plain or derived is
// rejected, since the inherited accessor would silently shadow the child's
// value.
func (s *Schema) Extend(code string, opts ...Option) (*Schema, error) {
	child := &Schema{
		code:   code,
		parent: s,
	}
	for _, opt := range opts {
		opt(child)
	}
	if err := child.check(); err != nil {
		return nil, err
	}
	return child, nil
}

// Code returns the environment code the schema was declared with.
func (s *Schema) Code() string {
	return s.code
}

// IsAbstract reports whether the schema is a base which cannot be resolved
// directly.
func (s *Schema) IsAbstract() bool {
	return s.abstract
}

// Parent returns the schema this one extends, or nil for a root schema.
func (s *Schema) Parent() *Schema {
	return s.parent
}

// Fields returns the effective field list for the schema: one entry per
// field name, ordered by the name's first appearance walking the chain from
// the root down, with each entry's kind and default/resolver taken from its
// most-derived declaration. The returned slice is shared and must not be
// modified.
func (s *Schema) Fields() []Field {
	s.classifyOnce.Do(s.classify)
	return s.fields
}

func (s *Schema) classify() {
	chain := s.chain()

	effective := make(map[string]int)
	var fields []Field
	for _, sch := range chain {
		for _, f := range sch.decls {
			if i, ok := effective[f.name]; ok {
				// Most-derived declaration wins, keeping the
				// ancestor's position in the order.
				fields[i] = f
				continue
			}
			effective[f.name] = len(fields)
			fields = append(fields, f)
		}
	}
	s.fields = fields
}

// chain returns the inheritance chain ordered root first.
func (s *Schema) chain() []*Schema {
	var chain []*Schema
	for sch := s; sch != nil; sch = sch.parent {
		chain = append(chain, sch)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func (s *Schema) check() error {
	seen := make(map[string]struct{}, len(s.decls))
	for _, f := range s.decls {
		if f.name == "" {
			return InvalidFieldDeclarationError{
				Field:  f.name,
				Reason: "field name must not be empty",
			}
		}
		if _, ok := seen[f.name]; ok {
			return InvalidFieldDeclarationError{
				Field:  f.name,
				Reason: "declared more than once in schema " + s.code,
			}
		}
		seen[f.name] = struct{}{}

		switch f.kind {
		case KindOpaque:
			if f.accessor == nil {
				return InvalidFieldDeclarationError{
					Field:  f.name,
					Reason: "computed field requires an accessor",
				}
			}
		case KindDerived:
			if f.resolver == nil {
				return InvalidFieldDeclarationError{
					Field:  f.name,
					Reason: "derived field requires a resolver",
				}
			}
			if f.def != nil {
				return InvalidFieldDeclarationError{
					Field:  f.name,
					Reason: "derived field must declare a nil default so overrides from any layer can stick",
				}
			}
		}

		if s.parent == nil {
			continue
		}
		inherited, ok := s.parent.lookupField(f.name)
		if !ok {
			continue
		}
		if inherited.kind == KindOpaque && f.kind != KindOpaque {
			return AmbiguousOverrideShadowingError{
				Field: f.name,
				Code:  s.code,
			}
		}
	}
	return nil
}

// lookupField finds the most-derived declaration of name in the chain ending
// at s.
func (s *Schema) lookupField(name string) (Field, bool) {
	for sch := s; sch != nil; sch = sch.parent {
		for _, f := range sch.decls {
			if f.name == name {
				return f, true
			}
		}
	}
	return Field{}, false
}
