package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asmscope/pkg/buildinfo"
	"github.com/matzehuels/asmscope/pkg/sink"
)

// shutdownTimeout bounds the graceful shutdown of the API server.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [database]",
		Short: "Serve a collated bbolt database as a JSON API",
		Long: `Serve the records of a collate run read-only over HTTP:

  GET /api/assembly            assembly statistics
  GET /api/components          component summaries in rank order
  GET /api/components/{rank}   nodes, edges and clusters of one component`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")

	return cmd
}

// runServe serves path until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, path, addr string) error {
	reader, err := sink.OpenBoltReader(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer reader.Close()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	server := &http.Server{
		ReadHeaderTimeout: 2 * time.Second,
		Handler:           newAPI(reader, loggerFromContext(ctx)),
	}

	loggerFromContext(ctx).Debug("serve", "addr", ln.Addr(), "build", buildinfo.String())
	printSuccess("Serving %s", path)
	printDetail("http://%s/api/components", ln.Addr())

	errc := make(chan error, 1)
	go func() { errc <- server.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		printInfo("Server stopped")
		return nil
	}
}
