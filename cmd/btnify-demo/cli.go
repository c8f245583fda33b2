package main

import (
	"context"
	"fmt"

	"github.com/joeydtaylor/btnify/pkg/manifest"
	"github.com/joeydtaylor/btnify/pkg/server"
	"github.com/joeydtaylor/btnify/pkg/serverfx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

type flags struct {
	manifest string
	listen   string
	useFx    bool
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "btnify-demo",
		Short:         "Serve a demo button panel",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if f.useFx {
				return runFx(cmd.Context(), cfg)
			}
			return run(cmd.Context(), cfg)
		},
	}
	root.Flags().StringVarP(&f.manifest, "manifest", "m", "", "manifest path (overrides "+manifest.ManifestEnv+")")
	root.Flags().StringVarP(&f.listen, "listen", "l", "", "listen address (overrides the manifest)")
	root.Flags().BoolVar(&f.useFx, "fx", false, "run inside an fx application")

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and build info",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "btnify-demo %s (%s)\n", Version, Commit)
			return err
		},
	}
}

func loadConfig(cmd *cobra.Command, f flags) (manifest.Config, error) {
	var (
		cfg manifest.Config
		err error
	)
	if f.manifest != "" {
		cfg, err = manifest.Load(f.manifest)
	} else {
		cfg, err = manifest.LoadFromEnv()
	}
	if err != nil {
		return manifest.Config{}, err
	}
	if f.listen != "" {
		cfg.Server.Listen = f.listen
	}
	if len(cfg.Buttons) == 0 {
		cfg.Buttons = defaultButtons
	}
	if cfg.Server.Title == manifest.DefaultTitle {
		cfg.Server.Title = "BTNify demo"
	}
	_, err = fmt.Fprintf(cmd.ErrOrStderr(), "btnify-demo: %d buttons on %s\n", len(cfg.Buttons), cfg.Server.Listen)
	return cfg, err
}

func shutdownFor(p *panel, log func() *zap.Logger) server.Option {
	return server.WithShutdown(server.ShutdownConfig[panel]{
		Signal: p.stop,
		Hook: func(p *panel) {
			log().Info("panel closed", zap.String("summary", p.summary()))
		},
	})
}

func run(ctx context.Context, cfg manifest.Config) error {
	p := newPanel()
	buttons, err := handlers().Buttons(cfg.Buttons)
	if err != nil {
		return err
	}

	var srv *server.Server[panel]
	srv, err = server.New(buttons, p,
		server.WithConfig(cfg),
		shutdownFor(p, func() *zap.Logger { return srv.Logger() }),
	)
	if err != nil {
		return err
	}
	return srv.ListenAndRun(ctx)
}

func runFx(ctx context.Context, cfg manifest.Config) error {
	p := newPanel()
	var log *zap.Logger

	app := fx.New(
		fx.Supply(cfg),
		serverfx.LoggerModule,
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger { return &fxevent.ZapLogger{Logger: l} }),
		fx.Populate(&log),
		serverfx.ManifestModule(handlers(), p, shutdownFor(p, func() *zap.Logger { return log })),
	)
	if err := app.Start(ctx); err != nil {
		return err
	}
	sig := <-app.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return err
	}
	if sig.ExitCode != 0 {
		return fmt.Errorf("server exited with code %d", sig.ExitCode)
	}
	return nil
}
