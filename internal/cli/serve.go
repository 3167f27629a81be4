package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/backbone/internal/server"
	"github.com/matzehuels/backbone/pkg/cache"
	"github.com/matzehuels/backbone/pkg/observability"
	"github.com/matzehuels/backbone/pkg/pipeline"
)

const defaultAddr = ":8080"

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Run the HTTP layout API until interrupted.

Layout options from the configuration file are the defaults for every
request. With [cache.redis] configured, instances share one cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && cfg.Server.Addr != "" {
				addr = cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), cfg, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *pipeline.Config, addr string, noCache bool) error {
	cc, err := c.cacheConfig(noCache)
	if err != nil {
		return err
	}
	runner, err := pipeline.NewRunnerFromConfig(ctx, cc, cache.NewScopedKeyer(nil, "api:"), c.Logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))

	printInfo("Serving the layout API")
	printKeyValue("address", addr)
	printKeyValue("cache", describeCache(cc))

	return server.New(runner, cfg.Options(), c.Logger).ListenAndServe(ctx, addr)
}

func describeCache(cc pipeline.CacheConfig) string {
	switch {
	case cc.Disabled:
		return "disabled"
	case cc.Redis.Addr != "":
		return "redis " + cc.Redis.Addr
	}
	return cc.Dir
}
