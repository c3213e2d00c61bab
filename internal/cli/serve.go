package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/api"
	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/observability"
	"github.com/matzehuels/boxtower/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	redis         string
	mongo         string
	mongoDatabase string
	timeout       time.Duration
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  POST /v1/solve            solve a box list, returns the recorded run
  GET  /v1/runs             list runs, newest first (?limit=N)
  GET  /v1/runs/{id}        fetch a run
  GET  /v1/runs/{id}/svg    render a run's tower
  GET  /healthz             liveness

Results are cached in Redis when --redis is given and in the local cache
directory otherwise. Runs are stored in MongoDB when --mongo is given and in
the local run directory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := c.Config.Server
			set := cmd.Flags().Changed
			if !set("addr") {
				opts.addr = srv.Addr
			}
			if !set("redis") {
				opts.redis = srv.Redis
			}
			if !set("mongo") {
				opts.mongo = srv.Mongo
			}
			if !set("mongo-database") {
				opts.mongoDatabase = srv.MongoDatabase
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis address for the result cache")
	cmd.Flags().StringVar(&opts.mongo, "mongo", "", "MongoDB URI for the run store")
	cmd.Flags().StringVar(&opts.mongoDatabase, "mongo-database", "", "MongoDB database (default boxtower)")
	cmd.Flags().DurationVar(&opts.timeout, "solve-timeout", api.DefaultSolveTimeout, "maximum duration of one solve")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	ch, st, err := c.newServerBackends(ctx, opts.redis, opts.mongo, opts.mongoDatabase)
	if err != nil {
		return fmt.Errorf("initialize backends: %w", err)
	}

	keyer := cache.NewDefaultKeyer()
	if opts.redis != "" {
		keyer = cache.NewScopedKeyer(keyer, appName+":")
	}
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	runner.Store = st
	runner.TTL = c.Config.Cache.TTL.Duration
	defer runner.Close()

	observability.NewLogHooks(c.Logger).Register()
	defer observability.Reset()

	server := &http.Server{
		Addr:              opts.addr,
		Handler:           api.New(runner, c.Logger, api.WithSolveTimeout(opts.timeout)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
