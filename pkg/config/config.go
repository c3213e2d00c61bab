// Package config loads boxtower's optional TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/boxtower/config.toml (see [DefaultPath])
// and every key is optional:
//
//	[solve]
//	algorithm = "tabu"
//
//	[tabu]
//	max_iterations = 100
//	capacities = [7, 8, 9, 10]
//	seed = 42                   # 0 selects the default
//	selection = "round-robin"   # or "random"
//	policy = "diversify"        # or "stop"
//	seeder = "greedy"           # or "dp"
//
//	[cache]
//	disabled = false
//	dir = "~/.cache/boxtower"
//	ttl = "168h"
//
//	[store]
//	dir = "~/.config/boxtower/runs"
//
//	[server]
//	addr = ":8080"
//	redis = ""
//	mongo = ""
//	mongo_database = "boxtower"
//
//	[log]
//	level = "info"
//
// Command-line flags override file values.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/solver"
)

// AppName names the configuration, cache and data directories.
const AppName = "boxtower"

// Config is the decoded configuration file.
type Config struct {
	Solve  Solve  `toml:"solve"`
	Tabu   Tabu   `toml:"tabu"`
	Cache  Cache  `toml:"cache"`
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

type Solve struct {
	Algorithm string `toml:"algorithm"`
}

type Tabu struct {
	MaxIterations int    `toml:"max_iterations"`
	Capacities    []int  `toml:"capacities"`
	Seed          uint64 `toml:"seed"`
	Selection     string `toml:"selection"`
	Policy        string `toml:"policy"`
	Seeder        string `toml:"seeder"`
}

type Cache struct {
	Disabled bool     `toml:"disabled"`
	Dir      string   `toml:"dir"`
	TTL      Duration `toml:"ttl"`
}

type Store struct {
	Dir string `toml:"dir"`
}

type Server struct {
	Addr          string `toml:"addr"`
	Redis         string `toml:"redis"`
	Mongo         string `toml:"mongo"`
	MongoDatabase string `toml:"mongo_database"`
}

type Log struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Solve: Solve{Algorithm: string(solver.AlgorithmTabu)},
		Tabu: Tabu{
			MaxIterations: solver.DefaultMaxIterations,
			Capacities:    solver.DefaultCapacities(),
			Seed:          solver.DefaultSeed,
			Selection:     string(solver.SelectRoundRobin),
			Policy:        string(solver.PolicyDiversify),
			Seeder:        string(solver.AlgorithmGreedy),
		},
		Cache: Cache{
			Dir: filepath.Join(userDir(os.UserCacheDir), AppName),
			TTL: Duration{7 * 24 * time.Hour},
		},
		Store: Store{
			Dir: filepath.Join(userDir(os.UserConfigDir), AppName, "runs"),
		},
		Server: Server{
			Addr:          ":8080",
			MongoDatabase: AppName,
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(userDir(os.UserConfigDir), AppName, "config.toml")
}

// userDir returns dir(), falling back to ~/.config when the platform
// reports no such directory.
func userDir(dir func() (string, error)) string {
	if d, err := dir(); err == nil {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

// Load reads the configuration file at path on top of [Default].
//
// An empty path means [DefaultPath], and a missing default file is not an
// error. An explicitly named file must exist. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidPath, err, "config file %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidOption, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.Store.Dir = expandHome(cfg.Store.Dir)
	return cfg, cfg.Validate()
}

// Validate checks every value that has a fixed set of choices.
func (c Config) Validate() error {
	if _, err := solver.ParseAlgorithm(c.Solve.Algorithm); err != nil {
		return err
	}
	if _, err := c.TabuSearch(); err != nil {
		return err
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache ttl must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "log level")
	}
	return nil
}

// TabuSearch converts the [tabu] table into solver options.
func (c Config) TabuSearch() (solver.TabuSearch, error) {
	seeder, err := solver.ParseAlgorithm(c.Tabu.Seeder)
	if err != nil {
		return solver.TabuSearch{}, errors.Wrap(errors.ErrCodeInvalidOption, err, "tabu seeder")
	}
	ts := solver.TabuSearch{
		MaxIterations: c.Tabu.MaxIterations,
		Capacities:    c.Tabu.Capacities,
		Seed:          c.Tabu.Seed,
		Selection:     solver.Selection(c.Tabu.Selection),
		Policy:        solver.Policy(c.Tabu.Policy),
		Initial:       seeder,
	}
	return ts, ts.Validate()
}

// Write encodes c as TOML at path, creating parent directories.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
