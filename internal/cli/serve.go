package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/internal/server"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		maxSessions int
		flags       engineFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and session HTTP API",
		Long: `Serve the flowboard HTTP API.

  POST   /api/v1/layout                 lay out a diagram
  POST   /api/v1/sessions               start an interactive session
  GET    /api/v1/sessions/{id}          session snapshot
  POST   /api/v1/sessions/{id}/events   pointer, delete and mount events
  DELETE /api/v1/sessions/{id}          end a session
  GET    /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, maxSessions, flags)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", server.DefaultMaxSessions, "maximum concurrent sessions")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, maxSessions int, flags engineFlags) error {
	engine, closeCache, err := c.newEngine(ctx, flags, "api:")
	if err != nil {
		return err
	}
	defer closeCache()

	srv := server.New(engine, server.Options{Logger: c.Logger, MaxSessions: maxSessions})
	err = srv.ListenAndServe(ctx, addr)
	if errors.Is(err, context.Canceled) {
		c.Logger.Info("server stopped")
	}
	return err
}
