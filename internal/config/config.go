// Package config loads docket settings from viper.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/docket/internal/common"
)

// EnvPrefix namespaces environment overrides, e.g. DOCKET_LEDGER_PATH.
const EnvPrefix = "DOCKET"

// Viper keys.
const (
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
	KeyWorkers        = "classify.workers"
	KeyRename         = "classify.rename"
	KeySkipKnown      = "classify.skip_known"
	KeyLineMargin     = "extract.line_margin"
	KeyLedgerEnabled  = "ledger.enabled"
	KeyLedgerPath     = "ledger.path"
	defaultLedgerPath = "~/.local/share/docket/docket.db"
)

// Config is the resolved application configuration.
type Config struct {
	Logging  Logging
	Ledger   Ledger
	Classify Classify
	Extract  Extract
}

// Logging controls the slog handler.
type Logging struct {
	Level  string
	Format string
}

// Classify controls batch classification.
type Classify struct {
	Workers   int
	Rename    bool
	SkipKnown bool
}

// Extract tunes PDF text reconstruction.
type Extract struct {
	LineMargin float64
}

// Ledger locates the processed-document database.
type Ledger struct {
	Path    string
	Enabled bool
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyRename, false)
	v.SetDefault(KeySkipKnown, true)
	v.SetDefault(KeyLineMargin, 1.5)
	v.SetDefault(KeyLedgerEnabled, true)
	v.SetDefault(KeyLedgerPath, defaultLedgerPath)
}

// Load reads and validates the configuration held by v. Defaults are
// applied for keys v does not set, and zero workers means one per CPU.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Logging: Logging{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
		Classify: Classify{
			Workers:   v.GetInt(KeyWorkers),
			Rename:    v.GetBool(KeyRename),
			SkipKnown: v.GetBool(KeySkipKnown),
		},
		Extract: Extract{
			LineMargin: v.GetFloat64(KeyLineMargin),
		},
		Ledger: Ledger{
			Enabled: v.GetBool(KeyLedgerEnabled),
			Path:    ExpandPath(v.GetString(KeyLedgerPath)),
		},
	}

	if cfg.Classify.Workers == 0 {
		cfg.Classify.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	if c.Classify.Workers < 1 {
		return fmt.Errorf("%w: %s must be at least 1, got %d", common.ErrInvalidConfig, KeyWorkers, c.Classify.Workers)
	}
	if c.Extract.LineMargin <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %g", common.ErrInvalidConfig, KeyLineMargin, c.Extract.LineMargin)
	}
	if c.Ledger.Enabled && strings.TrimSpace(c.Ledger.Path) == "" {
		return fmt.Errorf("%w: %s is empty", common.ErrMissingConfig, KeyLedgerPath)
	}
	return nil
}
