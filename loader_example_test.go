// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"context"
	"fmt"

	"github.com/z5labs/stratum/schema"
)

func Example() {
	base, _ := schema.New("dflt",
		schema.Abstract(),
		schema.Fields(
			schema.Plain("EXAMPLE_HOST", "localhost"),
			schema.Plain("EXAMPLE_PORT", "5432"),
			schema.Derived("EXAMPLE_ADDR", nil, schema.Join(":", "EXAMPLE_HOST", "EXAMPLE_PORT")),
		),
	)
	local, _ := base.Extend("lcl",
		schema.Fields(schema.Plain("EXAMPLE_HOST", "127.0.0.1")),
	)

	reg, _ := NewRegistry(Environment{
		Code:   "lcl",
		Name:   "local",
		Schema: local,
	})

	loader := NewLoader(reg, WithDefaultEnv("lcl"))
	cfg, _ := loader.Load(context.Background())

	addr, _ := cfg.Get("EXAMPLE_ADDR")
	fmt.Println(addr)
	// Output:
	// 127.0.0.1:5432
}

func ExampleLoader_Load_overrides() {
	s, _ := schema.New("lcl", schema.Fields(
		schema.Plain("EXAMPLE_COMPONENT", "example service"),
	))

	reg, _ := NewRegistry(Environment{Code: "lcl", Schema: s})

	loader := NewLoader(reg,
		WithDefaultEnv("lcl"),
		WithArgs(map[string]any{"EXAMPLE_COMPONENT": "overridden service"}),
	)
	cfg, _ := loader.Load(context.Background())

	name, _ := cfg.Get("EXAMPLE_COMPONENT")
	fmt.Println(name)
	// Output:
	// overridden service
}
