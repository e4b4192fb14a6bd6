package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abatilo/clarity/internal/api"
	"github.com/abatilo/clarity/internal/lease"
)

// serveCmd implements 'clarity serve'.
func serveCmd() *cobra.Command {
	var (
		host  string
		port  int
		force bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Run: func(cmd *cobra.Command, _ []string) {
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			addr := cfg.Addr()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			l := lease.ForCurrentProcess(addr)
			claimed, holder, err := lease.Claim(cfg.Data.Dir, l, force)
			if err != nil {
				printError(err)
			}
			if !claimed {
				printError(ServerRunningError{Owner: holder.Owner, Addr: holder.Addr})
			}
			defer release(ctx, l.Owner)

			app, err := getApp(ctx)
			if err != nil {
				release(ctx, l.Owner)
				printError(err)
			}
			defer app.Close()

			if err = api.NewServer(app, cfg.Server.CORSOrigins).ListenAndServe(ctx, addr); err != nil {
				release(ctx, l.Owner)
				printError(err)
			}
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default from config)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Take over the data directory from a server that did not shut down cleanly")
	return cmd
}

func release(ctx context.Context, owner string) {
	if _, err := lease.Release(cfg.Data.Dir, owner); err != nil {
		slog.WarnContext(ctx, "releasing server lease", "error", err)
	}
}
