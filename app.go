// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"github.com/z5labs/stratum/internal/try"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Runtime represents the entry point for user specific code. A Runtime
// should be purely focused on running use case specific code and leave
// configuration resolution and OS interrupts to the App.
type Runtime interface {
	Run(context.Context) error
}

// RuntimeBuilder represents anything which can initialize a Runtime from a
// resolved configuration.
type RuntimeBuilder interface {
	Build(context.Context) (Runtime, error)
}

// RuntimeBuilderFunc is a functional implementation of
// the RuntimeBuilder interface.
type RuntimeBuilderFunc func(context.Context) (Runtime, error)

// Build implements the RuntimeBuilder interface.
func (f RuntimeBuilderFunc) Build(ctx context.Context) (Runtime, error) {
	return f(ctx)
}

// Option are used to configure an App.
type Option func(*App)

// Name configures the name of the application.
func Name(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// WithRuntimeBuilder registers the given RuntimeBuilder with the App.
func WithRuntimeBuilder(rb RuntimeBuilder) Option {
	return func(a *App) {
		a.rbs = append(a.rbs, rb)
	}
}

// WithRuntimeBuilderFunc registers the given function as a RuntimeBuilder.
func WithRuntimeBuilderFunc(f func(context.Context) (Runtime, error)) Option {
	return func(a *App) {
		a.rbs = append(a.rbs, RuntimeBuilderFunc(f))
	}
}

type contextKey string

var resolvedContextKey = contextKey("resolvedContextKey")

// FromContext extracts the resolved configuration snapshot from the given
// context.Context if it's present.
func FromContext(ctx context.Context) *Resolved {
	r, _ := ctx.Value(resolvedContextKey).(*Resolved)
	return r
}

// App resolves the configuration exactly once and hands the snapshot to
// your Runtime(s). App is responsible for the following:
//   - Parsing the --config command line override flag
//   - Loading the resolved configuration before any Runtime is built
//   - Running your Runtime(s) and propagating any OS interrupts
//     via context.Context cancellation
type App struct {
	name   string
	loader *Loader
	rbs    []RuntimeBuilder
}

// NewApp returns a fully initialized App around the given Loader.
func NewApp(loader *Loader, opts ...Option) *App {
	var name string
	if len(os.Args) > 0 {
		name = os.Args[0]
	}
	app := &App{
		name:   name,
		loader: loader,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run executes the application with the given command line arguments,
// typically os.Args[1:]. It also handles listening for interrupts from the
// underlying OS and terminates the application when one is received.
func (app *App) Run(args ...string) error {
	cmd := buildCmd(app)
	// a nil slice makes cobra fall back to os.Args
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	return cmd.ExecuteContext(ctx)
}

var errNilRuntime = errors.New("nil runtime")

func buildCmd(app *App) *cobra.Command {
	var configFlag string

	rs := make([]Runtime, len(app.rbs))

	cmd := &cobra.Command{
		Use:           strings.TrimSpace(app.name),
		SilenceErrors: true,
		SilenceUsage:  true,
		PreRunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			if configFlag != "" {
				app.loader.setConfigFlag(configFlag)
			}

			r, err := app.loader.Load(cmd.Context())
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), resolvedContextKey, r)
			for i, rb := range app.rbs {
				rt, err := rb.Build(ctx)
				if err != nil {
					return err
				}
				if rt == nil {
					return errNilRuntime
				}
				rs[i] = rt

				// tell the garbage collector that we no longer
				// need that runtime builder and it can be collected
				app.rbs[i] = nil
			}
			app.rbs = nil
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			if len(rs) == 0 {
				return
			}
			if len(rs) == 1 {
				return rs[0].Run(cmd.Context())
			}

			g, gctx := errgroup.WithContext(cmd.Context())
			for _, rt := range rs {
				rt := rt
				g.Go(func() (e error) {
					defer try.Recover(&e)
					return rt.Run(gctx)
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&configFlag, "config", "", `space delimited KEY=VALUE overrides, e.g. --config "A=1 B=2"`)
	return cmd
}

// setConfigFlag supplies the command line override layer after
// construction. Must only be called before the first Load.
func (l *Loader) setConfigFlag(s string) {
	l.configFlag = s
}
