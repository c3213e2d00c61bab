package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/solver"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	ts, err := Default().TabuSearch()
	if err != nil {
		t.Fatal(err)
	}
	if ts.MaxIterations != solver.DefaultMaxIterations || ts.Initial != solver.AlgorithmGreedy {
		t.Errorf("unexpected tabu defaults: %+v", ts)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("got %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeFile(t, `
[solve]
algorithm = "progdyn"

[tabu]
max_iterations = 250
capacities = [3, 5]
selection = "random"

[cache]
ttl = "36h"
dir = "/tmp/boxtower-cache"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Solve.Algorithm = "progdyn"
	want.Tabu.MaxIterations = 250
	want.Tabu.Capacities = []int{3, 5}
	want.Tabu.Selection = "random"
	want.Cache.TTL = Duration{36 * time.Hour}
	want.Cache.Dir = "/tmp/boxtower-cache"
	want.Log.Level = "debug"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    errors.Code
	}{
		{"syntax", "[tabu\n", errors.ErrCodeInvalidFormat},
		{"bad duration", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidFormat},
		{"unknown key", "[tabu]\nmax_iteration = 3\n", errors.ErrCodeInvalidOption},
		{"unknown algorithm", "[solve]\nalgorithm = \"annealing\"\n", errors.ErrCodeInvalidAlgorithm},
		{"zero iterations", "[tabu]\nmax_iterations = 0\n", errors.ErrCodeInvalidOption},
		{"tabu seeder", "[tabu]\nseeder = \"tabu\"\n", errors.ErrCodeInvalidOption},
		{"bad policy", "[tabu]\npolicy = \"restart\"\n", errors.ErrCodeInvalidOption},
		{"bad level", "[log]\nlevel = \"loud\"\n", errors.ErrCodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("code = %q (%v), want %q", got, err, tt.want)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Server.Redis = "localhost:6379"
	cfg.Tabu.Seed = 7

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/box")

	tests := map[string]string{
		"~":          "/home/box",
		"~/cache":    "/home/box/cache",
		"/abs/path":  "/abs/path",
		"~other/dir": "~other/dir",
	}
	for in, want := range tests {
		if got := expandHome(in); got != want {
			t.Errorf("expandHome(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadShippedExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "config.toml"))
	if err != nil {
		t.Fatalf("Load(examples/config.toml): %v", err)
	}
	if cfg.Solve.Algorithm != "tabu" || cfg.Server.Redis != "" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
