package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/config"
	"github.com/matzehuels/boxtower/pkg/pipeline"
	"github.com/matzehuels/boxtower/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const appName = config.AppName

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

	// Config is loaded by the root command before any subcommand runs.
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration file and applies its log level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.Logger.SetLevel(level)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. With record set, solved
// runs are saved to the local run history.
func (c *CLI) newRunner(noCache, record bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ch, nil, c.Logger)
	runner.TTL = c.Config.Cache.TTL.Duration
	if record {
		s, err := c.newStore()
		if err != nil {
			ch.Close()
			return nil, err
		}
		runner.Store = s
	}
	return runner, nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(c.Config.Cache.Dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

func (c *CLI) newStore() (*store.FileStore, error) {
	return store.NewFileStore(c.Config.Store.Dir)
}

// newServerBackends picks the API server's cache and run store: Redis and
// MongoDB when addresses are given, the local file backends otherwise.
func (c *CLI) newServerBackends(ctx context.Context, redisAddr, mongoURI, mongoDB string) (cache.Cache, store.Store, error) {
	var (
		ch  cache.Cache
		err error
	)
	if redisAddr != "" {
		ch, err = cache.NewRedisCache(ctx, redisAddr)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Info("using redis cache", "addr", redisAddr)
	} else if ch, err = c.newCache(false); err != nil {
		return nil, nil, err
	}

	var st store.Store
	if mongoURI != "" {
		st, err = store.NewMongoStore(ctx, mongoURI, mongoDB)
		if err != nil {
			ch.Close()
			return nil, nil, err
		}
		c.Logger.Info("using mongo run store", "database", mongoDB)
	} else if st, err = c.newStore(); err != nil {
		ch.Close()
		return nil, nil, err
	}
	return ch, st, nil
}
