// Package config loads symtensor settings from YAML and SYMTENSOR_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/symtensor/internal/logging"
	"github.com/born-ml/symtensor/internal/parallel"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SYMTENSOR_"

// Storage kinds.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageBadger = "badger"
)

// Backend names.
const (
	BackendCPU   = "cpu"
	BackendGonum = "gonum"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete symtensor configuration.
type Config struct {
	Backend  BackendConfig   `yaml:"backend"`
	Parallel parallel.Config `yaml:"parallel"`
	Storage  StorageConfig   `yaml:"storage"`
	Log      logging.Config  `yaml:"log"`
	Metrics  MetricsConfig   `yaml:"metrics"`
}

// BackendConfig selects the dense multiply implementation.
type BackendConfig struct {
	Name string `yaml:"name" validate:"oneof=cpu gonum"`
}

// StorageConfig selects where out-of-core tensors live.
//
// File stores are created under Path. Badger opens a database at Path, or
// an in-memory database when Path is empty.
type StorageConfig struct {
	Kind        string `yaml:"kind" validate:"oneof=memory file badger"`
	Path        string `yaml:"path" validate:"required_if=Kind file"`
	Compress    bool   `yaml:"compress"`
	SyncWrites  bool   `yaml:"sync_writes"`
	ChunkValues int    `yaml:"chunk_values" validate:"gte=0"`
}

// MetricsConfig controls Prometheus collection.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required_if=Enabled true"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:  BackendConfig{Name: BackendCPU},
		Parallel: parallel.DefaultConfig(),
		Storage:  StorageConfig{Kind: StorageMemory},
		Log:      logging.DefaultConfig(),
		Metrics:  MetricsConfig{Namespace: "symtensor"},
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from SYMTENSOR_* variables. Malformed numbers
// and booleans are errors rather than silently ignored.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q: %w", ErrInvalid, EnvPrefix, name, v, err)
		}
		*dst = n
		return nil
	}
	flag := func(name string, dst *bool) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q: %w", ErrInvalid, EnvPrefix, name, v, err)
		}
		*dst = b
		return nil
	}

	str("BACKEND", &cfg.Backend.Name)
	str("STORAGE_KIND", &cfg.Storage.Kind)
	str("STORAGE_PATH", &cfg.Storage.Path)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("METRICS_NAMESPACE", &cfg.Metrics.Namespace)

	return errors.Join(
		flag("PARALLEL_ENABLED", &cfg.Parallel.Enabled),
		num("PARALLEL_WORKERS", &cfg.Parallel.NumWorkers),
		num("PARALLEL_MIN_CHUNK_SIZE", &cfg.Parallel.MinChunkSize),
		flag("STORAGE_COMPRESS", &cfg.Storage.Compress),
		flag("STORAGE_SYNC_WRITES", &cfg.Storage.SyncWrites),
		num("STORAGE_CHUNK_VALUES", &cfg.Storage.ChunkValues),
		flag("LOG_DEVELOPMENT", &cfg.Log.Development),
		flag("METRICS_ENABLED", &cfg.Metrics.Enabled),
	)
}
