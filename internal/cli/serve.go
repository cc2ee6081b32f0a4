package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/semigroups/pkg/api"
	"github.com/matzehuels/semigroups/pkg/cache"
	"github.com/matzehuels/semigroups/pkg/store"
)

// serveCommand creates the serve command for running the API server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redis    string
		mongoURI string
		mongoDB  string
		timeout  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the enumeration API server",
		Long: `Run the enumeration API server.

The server accepts generator specifications over HTTP, records each
enumeration as a run, and serves rendered Cayley graphs for finished
runs. Without --mongo runs are held in memory; without --redis results
are cached on the local filesystem.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, addr, redis, mongoURI, mongoDB,
				time.Duration(timeout)*time.Second)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redis, "redis", "", "Redis address for shared caching (e.g. localhost:6379)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for persistent runs (e.g. mongodb://localhost:27017)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "", "MongoDB database name (default semigroups)")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", 30, "per-request enumeration timeout in seconds")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, addr, redis, mongoURI, mongoDB string, timeout time.Duration) error {
	ctx := cmd.Context()

	var st store.Store
	if mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI, Database: mongoDB})
		if err != nil {
			return fmt.Errorf("connect to MongoDB: %w", err)
		}
		st = ms
		c.Logger.Info("using MongoDB run store", "uri", mongoURI)
	} else {
		st = store.NewMemoryStore()
		c.Logger.Warn("using in-memory run store; runs are lost on restart")
	}
	defer st.Close(ctx)

	var cc cache.Cache
	if redis != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redis})
		if err != nil {
			return fmt.Errorf("connect to Redis: %w", err)
		}
		cc = rc
		c.Logger.Info("using Redis cache", "addr", redis)
	} else {
		var err error
		cc, err = newCache(false)
		if err != nil {
			return fmt.Errorf("initialize cache: %w", err)
		}
	}
	defer cc.Close()

	srv := api.NewServer(st, cc, api.WithLogger(c.Logger), api.WithTimeout(timeout))
	return srv.ListenAndServe(ctx, addr)
}
