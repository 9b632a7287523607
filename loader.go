// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"context"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/z5labs/stratum/schema"
	"github.com/z5labs/stratum/source"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultSelectorVar is the environment variable consulted for the active
// environment code when none is selected explicitly.
const DefaultSelectorVar = "ENV_CODE"

// LoaderOption is used to configure a Loader.
type LoaderOption func(*Loader)

// WithDotenv supplies the path of a KEY=VALUE per line file applied between
// schema defaults and process environment variables. An unreadable file at
// the given path fails the load; no dotenv layer is consulted when the
// option is omitted.
func WithDotenv(path string) LoaderOption {
	return func(l *Loader) {
		l.dotenvPath = path
	}
}

// WithArgs supplies explicit, constructor style overrides. They form the
// highest precedence layer together with any command line overrides; a
// caller is expected to use one of the two per invocation.
func WithArgs(args map[string]any) LoaderOption {
	return func(l *Loader) {
		if l.args == nil {
			l.args = make(map[string]any, len(args))
		}
		for k, v := range args {
			l.args[k] = v
		}
	}
}

// WithConfigFlag supplies the raw value of a --config command line flag,
// one or more space delimited KEY=VALUE pairs. Parsing happens at load time
// so a malformed token fails the load, not the construction.
func WithConfigFlag(s string) LoaderOption {
	return func(l *Loader) {
		l.configFlag = s
	}
}

// WithEnv selects the environment code explicitly, taking precedence over
// the selector variable.
func WithEnv(code string) LoaderOption {
	return func(l *Loader) {
		l.envCode = code
	}
}

// WithSelectorVar overrides the environment variable consulted for the
// active environment code.
func WithSelectorVar(name string) LoaderOption {
	return func(l *Loader) {
		l.selectorVar = name
	}
}

// WithDefaultEnv sets the code resolved when neither an explicit selection
// nor the selector variable names one.
func WithDefaultEnv(code string) LoaderOption {
	return func(l *Loader) {
		l.defaultCode = code
	}
}

// Logger configures the logger resolution progress is reported to.
func Logger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader selects an environment from a Registry and resolves its schema
// into a single immutable snapshot, memoized for the life of the process.
type Loader struct {
	reg *Registry

	selectorVar string
	defaultCode string
	envCode     string
	dotenvPath  string
	args        map[string]any
	configFlag  string
	logger      *zap.Logger

	gen    atomic.Uint64
	group  singleflight.Group
	cached atomic.Pointer[Resolved]
}

// NewLoader returns a fully initialized Loader.
func NewLoader(reg *Registry, opts ...LoaderOption) *Loader {
	l := &Loader{
		reg:         reg,
		selectorVar: DefaultSelectorVar,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the resolved configuration snapshot, resolving it on first
// use. Concurrent callers during a miss coalesce into a single resolution
// and all receive the identical snapshot. On a hit no override layer is
// re-read.
func (l *Loader) Load(ctx context.Context) (*Resolved, error) {
	if r := l.cached.Load(); r != nil {
		return r, nil
	}

	gen := l.gen.Load()
	v, err, _ := l.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		if r := l.cached.Load(); r != nil {
			return r, nil
		}
		r, err := l.resolve(ctx)
		if err != nil {
			return nil, err
		}
		// An invalidation while resolving means this snapshot may
		// predate an environment change; hand it to current waiters
		// but do not cache it.
		if l.gen.Load() == gen {
			l.cached.Store(r)
		}
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Resolved), nil
}

// Invalidate discards the cached snapshot. The next Load re-reads the
// dotenv and environment variable layers fresh. Snapshots already handed
// out are unaffected. Intended for test and administrative callers only.
func (l *Loader) Invalidate() {
	l.gen.Add(1)
	l.cached.Store(nil)
	l.logger.Debug("invalidated cached configuration")
}

func (l *Loader) resolve(ctx context.Context) (*Resolved, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	code := l.envCode
	if code == "" {
		code = os.Getenv(l.selectorVar)
	}
	if code == "" {
		code = l.defaultCode
	}

	env, ok := l.reg.Lookup(code)
	if !ok {
		return nil, UnknownEnvironmentError{Code: code}
	}
	if env.Schema.IsAbstract() {
		return nil, AbstractInstantiationError{Code: code}
	}
	l.logger.Debug("selected environment", zap.String("env_code", code))

	fields := env.Schema.Fields()

	overridable := make(map[string]struct{}, len(fields))
	defaults := make(source.Map, len(fields))
	for _, f := range fields {
		if f.Kind() == schema.KindOpaque {
			continue
		}
		overridable[f.Name()] = struct{}{}
		if f.Default() != nil {
			defaults[f.Name()] = f.Default()
		}
	}
	allow := func(name string) bool {
		_, ok := overridable[name]
		return ok
	}

	explicit := make(source.Map, len(l.args))
	for k, v := range l.args {
		explicit[k] = v
	}
	if l.configFlag != "" {
		parsed, err := source.ParseConfigFlag(l.configFlag)
		if err != nil {
			return nil, err
		}
		for k, v := range parsed {
			explicit[k] = v
		}
	}

	srcs := []source.Source{defaults}
	if l.dotenvPath != "" {
		srcs = append(srcs, source.Filter(source.FromDotenv(l.dotenvPath), allow))
	}
	srcs = append(srcs,
		source.Filter(source.FromEnv(), allow),
		source.Filter(explicit, allow),
	)

	raw, err := source.Apply(srcs...)
	if err != nil {
		return nil, err
	}

	values := make(lookupMap, len(fields))
	opaque := make(map[string]schema.Accessor)
	for _, f := range fields {
		switch f.Kind() {
		case schema.KindPlain:
			if v, ok := raw[f.Name()]; ok {
				values[f.Name()] = v
			}
		case schema.KindOpaque:
			opaque[f.Name()] = f.Accessor()
		}
	}

	// Derived fields resolve in declaration order so each sees the final
	// values of every field before it.
	for _, f := range fields {
		if f.Kind() != schema.KindDerived {
			continue
		}
		v, err := f.Resolver().Resolve(schema.ResolverContext{
			Field:    f.Name(),
			Incoming: raw[f.Name()],
			Resolved: values,
		})
		if err != nil {
			return nil, err
		}
		values[f.Name()] = v
	}

	l.logger.Info("resolved configuration",
		zap.String("env_code", code),
		zap.Int("fields", len(values)),
		zap.Int("opaque_fields", len(opaque)),
	)
	return &Resolved{
		env:    env,
		values: values,
		opaque: opaque,
	}, nil
}
