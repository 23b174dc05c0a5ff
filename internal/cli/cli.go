// Package cli implements the vitae command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vitae/internal/config"
	"github.com/matzehuels/vitae/pkg/buildinfo"
	"github.com/matzehuels/vitae/pkg/cache"
	"github.com/matzehuels/vitae/pkg/pipeline"
	"github.com/matzehuels/vitae/pkg/render/skin"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "vitae"

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
	skinsPath  string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Vitae renders resumes to DOCX, PDF and live previews",
		Long:         `Vitae turns a structured resume document into a styled word-processor file, a print-ready PDF or an on-screen preview, using one of several template skins.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(contextWithLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML configuration file")
	root.PersistentFlags().StringVar(&c.skinsPath, "skins", "", "TOML skin table replacing the built-in templates")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// loadConfig reads the --config file (if any) and the environment.
// A --skins flag wins over the configured skin table.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.skinsPath != "" {
		cfg.Skins = c.skinsPath
	}
	return cfg, nil
}

// registry returns the skin table named by cfg, or the built-in one.
func registry(cfg *config.Config) (*skin.Registry, error) {
	if cfg.Skins == "" {
		return skin.Default(), nil
	}
	return skin.LoadFile(cfg.Skins)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	reg, err := registry(cfg)
	if err != nil {
		return nil, err
	}
	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return c.runnerFor(reg, store, cfg), nil
}

// runnerFor wires a registry and cache into a runner using cfg's key
// prefix and TTL.
func (c *CLI) runnerFor(reg *skin.Registry, store cache.Cache, cfg *config.Config) *pipeline.Runner {
	var keyer cache.Keyer
	if cfg.Cache.KeyPrefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.KeyPrefix)
	}
	r := pipeline.NewRunner(reg, store, keyer, c.Logger)
	if cfg.Cache.TTL.Duration > 0 {
		r.TTL = cfg.Cache.TTL.Duration
	}
	return r
}

// newCache opens the cache for CLI runs. Unless noCache is set, CLI runs
// keep artifacts in the file cache even when the configured backend is none.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	settings := cfg.CacheSettings()
	if settings.Backend == "" || settings.Backend == cache.BackendNone {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		settings = cache.Settings{Backend: cache.BackendFile, Dir: dir}
	}
	return openCache(ctx, settings)
}

// newServerCache opens exactly the configured backend.
func newServerCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	return openCache(ctx, cfg.CacheSettings())
}

func openCache(ctx context.Context, settings cache.Settings) (cache.Cache, error) {
	store, err := cache.Open(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", settings.Backend, err)
	}
	return store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/vitae/).
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
