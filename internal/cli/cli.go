// Package cli implements the flowboard command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/internal/config"
	"github.com/matzehuels/flowboard/pkg/buildinfo"
	"github.com/matzehuels/flowboard/pkg/cache"
	"github.com/matzehuels/flowboard/pkg/layout"
	"github.com/matzehuels/flowboard/pkg/layout/graphviz"
	"github.com/matzehuels/flowboard/pkg/layout/layered"
	"github.com/matzehuels/flowboard/pkg/observability"
)

// appName is the application name used for directories and display.
const appName = "flowboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowboard lays out and edits node-and-port flow diagrams",
		Long:         `Flowboard lays out directed flow diagrams left to right, writes the derived port and edge geometry for renderers, and edits diagrams interactively in the terminal or over HTTP.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.Path()+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose and loads the config file.
func (c *CLI) setup() error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.RegisterLogHooks(c.Logger)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// engineFlags are the layout overrides shared by several commands.
type engineFlags struct {
	oracle  string
	noCache bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.oracle, "oracle", "", "layout oracle: graphviz, layered (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
}

// newEngine builds a layout engine from the config and flag overrides. The
// returned close function releases the cache backend. A non-empty scope
// prefixes cache keys so that callers do not share entries.
func (c *CLI) newEngine(ctx context.Context, f engineFlags, scope string) (*layout.Engine, func() error, error) {
	name := c.cfg.Layout.Oracle
	if f.oracle != "" {
		name = f.oracle
	}
	oracle, err := newOracle(name)
	if err != nil {
		return nil, nil, err
	}

	backend, err := c.newCache(ctx, f.noCache)
	if err != nil {
		return nil, nil, err
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if scope != "" {
		keyer = cache.NewScopedKeyer(keyer, scope)
	}

	engine := layout.New(oracle,
		layout.WithBoxSize(c.cfg.BoxSize()),
		layout.WithSeparation(c.cfg.Layout.RankSep, c.cfg.Layout.NodeSep),
		layout.WithPortSpacing(c.cfg.Ports.Spacing),
		layout.WithCache(backend, c.cfg.Cache.TTL.Duration),
		layout.WithKeyer(keyer),
		layout.WithLogger(c.Logger),
	)
	return engine, backend.Close, nil
}

func newOracle(name string) (layout.Oracle, error) {
	switch name {
	case config.OracleGraphviz:
		return graphviz.New(), nil
	case config.OracleLayered:
		return layered.New(), nil
	}
	return nil, fmt.Errorf("unknown oracle %q (want graphviz or layered)", name)
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: c.cfg.Cache.RedisAddr, Prefix: appName + ":"})
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open file cache: %w", err)
	}
	return fc, nil
}

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/flowboard/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg != nil && c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

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
