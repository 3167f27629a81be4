// Package cli implements the backbone command-line interface.
//
// # Commands
//
//   - layout: lay out one or more design documents
//   - constraints: draw the constraint graph of a design as DOT or SVG
//   - serve: run the HTTP API
//   - cache: inspect and clear the layout cache
//   - completion: generate shell completion scripts
//
// Every command accepts --config to load a TOML configuration file.
// Values resolve as built-in defaults, then the file, then flags.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/backbone/pkg/buildinfo"
	"github.com/matzehuels/backbone/pkg/observability"
	"github.com/matzehuels/backbone/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "backbone"

	// configEnv names the environment variable consulted when --config is
	// not given.
	configEnv = "BACKBONE_CONFIG"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *pipeline.Config
}

// New creates a CLI writing logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// EnableEventLog reports pipeline and cache events to the logger.
func (c *CLI) EnableEventLog() {
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Backbone lays out genetic circuit designs",
		Long: `Backbone computes the backbone layout of a genetic circuit design: it places
every part on numbered tracks along the circuit sequence, honoring fixed
coordinates and "precedes" constraints, and can compact empty stretches.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv(configEnv), "TOML configuration file (env "+configEnv+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.constraintsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig returns the configuration file contents, or an empty
// configuration when no file is set. The result is memoized.
func (c *CLI) loadConfig() (*pipeline.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg := &pipeline.Config{}
	if c.configPath != "" {
		var err error
		if cfg, err = pipeline.LoadConfig(c.configPath); err != nil {
			return nil, err
		}
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	c.config = cfg
	return cfg, nil
}

// cacheConfig returns the cache configuration with the CLI defaults
// applied: the XDG cache directory, or no caching when noCache is set.
func (c *CLI) cacheConfig(noCache bool) (pipeline.CacheConfig, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.CacheConfig{}, err
	}
	cc := cfg.Cache
	if noCache {
		cc.Disabled = true
	}
	if cc.Dir == "" && cc.Redis.Addr == "" {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			cc.Disabled = true
		}
		cc.Dir = dir
	}
	return cc, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.cacheConfig(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunnerFromConfig(ctx, cc, nil, c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/backbone/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats splits a comma-separated format list.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
