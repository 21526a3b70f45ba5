package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/shopspring/decimal"
)

// Settings holds runtime configuration read from FISCAL_* variables.
// Unset model parameters keep the calibrated defaults.
type Settings struct {
	DataYear   int      `env:"FISCAL_DATA_YEAR" envDefault:"2022"`
	DefaultETI *float64 `env:"FISCAL_DEFAULT_ETI"`
	Workers    int      `env:"FISCAL_PACKAGE_WORKERS" envDefault:"4"`

	SpendingMultiplier *float64 `env:"FISCAL_SPENDING_MULTIPLIER"`
	TaxCutMultiplier   *float64 `env:"FISCAL_TAX_CUT_MULTIPLIER"`
	MultiplierDecay    *float64 `env:"FISCAL_MULTIPLIER_DECAY"`
	CrowdingOut        *float64 `env:"FISCAL_CROWDING_OUT"`

	HTTPAddr string `env:"FISCAL_HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	DBPath   string `env:"FISCAL_DB_PATH" envDefault:"fiscalcalc.db"`
	LogLevel string `env:"FISCAL_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ScorerConfig applies the settings on top of the scorer defaults.
func (s Settings) ScorerConfig() scoring.Config {
	cfg := scoring.DefaultConfig()
	if s.DataYear > 0 {
		cfg.DataYear = s.DataYear
	}
	if s.Workers > 0 {
		cfg.PackageWorkers = s.Workers
	}
	set := func(dst *decimal.Decimal, v *float64) {
		if v != nil {
			*dst = decimal.NewFromFloat(*v)
		}
	}
	set(&cfg.DefaultETI, s.DefaultETI)
	set(&cfg.Macro.SpendingMultiplier, s.SpendingMultiplier)
	set(&cfg.Macro.TaxCutMultiplier, s.TaxCutMultiplier)
	if s.TaxCutMultiplier != nil {
		cfg.Macro.TaxIncreaseMultiplier = decimal.NewFromFloat(-*s.TaxCutMultiplier)
	}
	set(&cfg.Macro.MultiplierDecay, s.MultiplierDecay)
	set(&cfg.Macro.CrowdingOut, s.CrowdingOut)
	return cfg
}

// SlogLevel maps LogLevel to a slog level; unknown names mean info.
func (s Settings) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
