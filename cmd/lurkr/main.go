// Command lurkr is the SNI-aware TLS front-door binary: bind a listener,
// compile the SNI rule table, and dispatch each connection per
// spec.md. CLI surface, config loading, and signal handling are the
// external collaborators spec.md §1 calls out; the core packages under
// internal/ know nothing about any of them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thecubic/lurkr/internal/config"
	"github.com/thecubic/lurkr/internal/frontdoor"
	"github.com/thecubic/lurkr/internal/identity"
	"github.com/thecubic/lurkr/internal/logging"
	"github.com/thecubic/lurkr/internal/matcher"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		debug    bool
		confPath string
	)

	cmd := &cobra.Command{
		Use:           "lurkr",
		Short:         "SNI-aware TLS front-door",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(confPath, debug)
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "raise log verbosity to debug")
	cmd.Flags().StringVarP(&confPath, "conf", "c", "", "path to configuration file")
	_ = cmd.MarkFlagRequired("conf")

	return cmd
}

func run(confPath string, debug bool) error {
	level := logging.Info
	if debug {
		level = logging.Debug
	}
	log := logging.Default(level)

	cfg, err := config.Load(confPath)
	if err != nil {
		return fmt.Errorf("lurkr: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("lurkr: %w", err)
	}

	store, err := identity.NewStore(cfg.TLS)
	if err != nil {
		return fmt.Errorf("lurkr: building tls identities: %w", err)
	}

	table, err := matcher.Compile(cfg.Mapping, store)
	if err != nil {
		return fmt.Errorf("lurkr: compiling mapping: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Listener.Addr, cfg.Listener.Port)
	srv, err := frontdoor.New(addr, table, log)
	if err != nil {
		return fmt.Errorf("lurkr: %w", err)
	}
	log.Infof("listening on %s", addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("lurkr: %w", err)
	}
	log.Info("clean shutdown")
	return nil
}
