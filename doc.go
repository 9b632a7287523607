// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package stratum resolves layered configuration into one immutable snapshot per process.
//
// A configuration is declared as a [schema.Schema], an ordered field table
// which may extend a parent schema. A [Registry] maps environment codes to
// schemas and a [Loader] selects exactly one of them, applies every override
// layer in precedence order and memoizes the result as a [Resolved] snapshot.
//
// # Override Layers
//
// Field values are merged low to high precedence:
//
//  1. Base schema defaults
//  2. Extending schema overrides
//  3. Dotenv file values
//  4. Process environment variables
//  5. Explicit arguments or --config KEY=VALUE command line tokens
//
// Layers 3-5 only ever apply to plain and derived fields. Opaque computed
// fields are invisible to every override mechanism and to the resolved value
// mapping; they are read through [Resolved.Opaque] and evaluate lazily
// against the snapshot's final values.
//
// # Basic Usage
//
// Declare a base schema and an environment extending it:
//
//	base, _ := schema.New("dflt",
//	    schema.Abstract(),
//	    schema.Fields(
//	        schema.Plain("COMPONENT_NAME", "my service"),
//	        schema.Plain("HOST", "localhost"),
//	        schema.Plain("PORT", "8080"),
//	        schema.Derived("ADDR", nil, schema.Join(":", "HOST", "PORT")),
//	    ),
//	)
//	local, _ := base.Extend("lcl",
//	    schema.Fields(schema.Plain("HOST", "127.0.0.1")),
//	)
//
// Register it and load the snapshot:
//
//	reg, _ := stratum.NewRegistry(stratum.Environment{Code: "lcl", Schema: local})
//	loader := stratum.NewLoader(reg, stratum.WithDefaultEnv("lcl"))
//	cfg, err := loader.Load(ctx)
//
// Load memoizes: every caller in the process receives the identical
// snapshot, and concurrent first loads coalesce into a single resolution.
// [Loader.Invalidate] discards the snapshot so the next Load re-reads the
// dotenv and environment variable layers; it exists for test and
// administrative code paths only.
package stratum
