package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hanteus/ProjectArena/internal/api"
	"github.com/Hanteus/ProjectArena/pkg/archive"
	"github.com/Hanteus/ProjectArena/pkg/cache"
	"github.com/Hanteus/ProjectArena/pkg/mapio"
	"github.com/Hanteus/ProjectArena/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string        // listen address
	inputDir string        // directory map-name requests resolve against
	runsDir  string        // file archive directory, empty for the default
	mongoURI string        // MongoDB connection string, overrides runsDir
	mongoDB  string        // MongoDB database name
	redis    string        // Redis address for a shared pipeline cache
	ttl      time.Duration // run retention
	noCache  bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints live under /v1: populate and analyze accept the pipeline
options as JSON, runs lists and fetches archived placement runs. Named
maps resolve against the configured input directory; requests cannot
pick their own.

Populate runs are archived to a local directory by default. Point
--mongo-uri at a MongoDB instance to share the archive between servers,
and --redis at a Redis instance to share the pipeline cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVarP(&opts.inputDir, "dir", "d", mapio.DefaultInputDir, "input directory with map pairs")
	cmd.Flags().StringVar(&opts.runsDir, "runs-dir", "", "directory for the run archive (default ~/.config/arenamap/runs)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection string for the run archive")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", appName, "MongoDB database name")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis address (host:port) for a shared pipeline cache")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", archive.DefaultTTL, "retention for archived runs")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the runner and archive store from flags and serves
// until the context is canceled.
func (c *CLI) runServe(ctx context.Context, cliOpts serveOpts) error {
	pipelineCache, err := newServeCache(cliOpts)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(pipelineCache, nil, c.Logger)
	defer runner.Close()

	store, err := newRunStore(ctx, cliOpts)
	if err != nil {
		return fmt.Errorf("initialize run archive: %w", err)
	}
	defer store.Close()

	if err := store.Cleanup(ctx); err != nil {
		c.Logger.Warn("archive cleanup failed", "err", err)
	}

	server := api.NewServer(runner, store, c.Logger, api.Config{
		InputDir: cliOpts.inputDir,
		RunTTL:   cliOpts.ttl,
	})
	return server.ListenAndServe(ctx, cliOpts.addr)
}

// newServeCache picks the pipeline cache backend for a server: redis
// when an address is given, otherwise the local file cache.
func newServeCache(opts serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redis != "" {
		return cache.NewRedisCache(opts.redis, "", 0)
	}
	return newCache(false)
}

// newRunStore picks the archive backend: MongoDB when a URI is given,
// otherwise the file store.
func newRunStore(ctx context.Context, opts serveOpts) (archive.Store, error) {
	if opts.mongoURI != "" {
		return archive.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
	}
	return archive.NewFileStore(opts.runsDir)
}
