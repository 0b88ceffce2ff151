package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/auth"
	"github.com/jonathan/job-tracker/internal/board"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/dashboard"
	"github.com/jonathan/job-tracker/internal/listing"
	"github.com/jonathan/job-tracker/internal/roles"
	"github.com/jonathan/job-tracker/internal/server"
	"github.com/jonathan/job-tracker/internal/server/ratelimit"
)

const shutdownTimeout = 30 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing the job board, dashboards and auth endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	if servePort != 0 {
		a.cfg.Port = servePort
	}

	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}

	var (
		revoked auth.RevocationList
		cache   roles.Cache
	)
	if a.redis != nil {
		revoked = auth.NewRedisRevocations(a.redis, "jobtracker:revoked")
		cache = roles.NewRedisCache(a.redis, "jobtracker:role", time.Duration(a.cfg.RoleCacheTTL), a.log)
	} else {
		revoked = auth.NewMemoryRevocations()
		cache = roles.NewMemoryCache(time.Duration(a.cfg.RoleCacheTTL))
	}

	provider := auth.NewProvider(a.repo, passwords, auth.NewTokenIssuer(jwtCfg), revoked, a.log)
	resolver := roles.NewResolver(a.repo, cache, time.Duration(a.cfg.RoleResolveTimeout), a.log)
	sweeper := listing.NewSweeper(a.repo, time.Local, a.log)

	if a.cfg.SweepEnabled() {
		if err := sweeper.Start(ctx, a.cfg.SweepSchedule); err != nil {
			return err
		}
		defer sweeper.Stop()
	}

	limiter := ratelimit.NewLimiter(ratelimit.LoadConfig())

	srv := server.New(server.Deps{
		Config:    a.cfg,
		JWT:       jwtCfg,
		Board:     board.New(a.repo, provider, resolver, sweeper, a.log),
		Dashboard: dashboard.NewService(a.repo, a.log),
		Accounts:  provider,
		Roles:     resolver,
		Limiter:   limiter,
		Log:       a.log,
	})
	return srv.Run(ctx, shutdownTimeout)
}

// runWithSignals is used by one-shot commands so Ctrl-C cancels their work.
func runWithSignals(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
