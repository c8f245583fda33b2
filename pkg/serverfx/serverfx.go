// Package serverfx runs a btnify server inside an fx application. The fx
// lifecycle starts the listener on OnStart and drives the shutdown hook on
// OnStop; an external shutdown signal stops the app through fx.Shutdowner.
package serverfx

import (
	"context"
	"sync/atomic"

	"github.com/joeydtaylor/btnify/pkg/button"
	"github.com/joeydtaylor/btnify/pkg/core"
	"github.com/joeydtaylor/btnify/pkg/manifest"
	"github.com/joeydtaylor/btnify/pkg/middleware/logger"
	"github.com/joeydtaylor/btnify/pkg/server"
	"github.com/joeydtaylor/btnify/pkg/shutdown"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConfigFromEnv provides manifest.Config from BTNIFY_MANIFEST and friends.
var ConfigFromEnv = fx.Provide(manifest.LoadFromEnv)

// LoggerModule provides the system logger and the access logger (named
// "access") from the [log] section, synced on stop.
var LoggerModule = fx.Options(
	fx.Provide(provideSystemLog),
	fx.Provide(fx.Annotate(provideAccessLog, fx.ResultTags(`name:"access"`))),
)

func provideSystemLog(lc fx.Lifecycle, cfg manifest.Config) (*zap.Logger, error) {
	return syncOnStop(lc, cfg, logger.NewSystemLog)
}

func provideAccessLog(lc fx.Lifecycle, cfg manifest.Config) (*zap.Logger, error) {
	return syncOnStop(lc, cfg, logger.NewAccessLog)
}

func syncOnStop(lc fx.Lifecycle, cfg manifest.Config, build func(manifest.Log) (*zap.Logger, error)) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l, err := build(cfg.Log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() { _ = l.Sync() }))
	return l, nil
}

type serverParams struct {
	fx.In
	Config    manifest.Config
	Logger    *zap.Logger
	AccessLog *zap.Logger `name:"access" optional:"true"`
}

func (p serverParams) options(extra []server.Option) []server.Option {
	opts := []server.Option{server.WithConfig(p.Config), server.WithLogger(p.Logger)}
	if p.AccessLog != nil {
		opts = append(opts, server.WithAccessLogger(p.AccessLog))
	}
	return append(opts, extra...)
}

// Module provides *server.Server[S] for a fixed button list and registers
// its lifecycle hooks. The graph must supply manifest.Config and *zap.Logger
// (see ConfigFromEnv and LoggerModule).
func Module[S any](buttons []button.Button[S], state *S, opts ...server.Option) fx.Option {
	return fx.Options(
		fx.Provide(func(p serverParams) (*server.Server[S], error) {
			return server.New(buttons, state, p.options(opts)...)
		}),
		fx.Invoke(registerHooks[S]),
	)
}

// ManifestModule is Module with the buttons taken from the manifest's
// [[button]] entries, resolved against hs.
func ManifestModule[S any](hs *core.HandlerSet[S], state *S, opts ...server.Option) fx.Option {
	return fx.Options(
		fx.Provide(func(p serverParams) (*server.Server[S], error) {
			buttons, err := hs.Buttons(p.Config.Buttons)
			if err != nil {
				return nil, err
			}
			return server.New(buttons, state, p.options(opts)...)
		}),
		fx.Invoke(registerHooks[S]),
	)
}

// never is a channel nobody closes; fx owns process signals.
var never = make(chan struct{})

func registerHooks[S any](lc fx.Lifecycle, sd fx.Shutdowner, srv *server.Server[S]) {
	coord := srv.NewCoordinator(shutdown.WithInterrupt(never))
	runErr := make(chan error, 1)
	var stopping atomic.Bool

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := srv.Listen()
			if err != nil {
				return err
			}
			go func() {
				err := srv.RunWith(context.Background(), ln, coord)
				runErr <- err
				if stopping.Load() {
					return
				}
				// stopped by the external signal or a serve failure
				code := 0
				if err != nil {
					code = 1
				}
				if serr := sd.Shutdown(fx.ExitCode(code)); serr != nil {
					srv.Logger().Error("fx shutdown failed", zap.Error(serr))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopping.Store(true)
			coord.Trigger()
			select {
			case err := <-runErr:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
