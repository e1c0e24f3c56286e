package config

import (
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Training  TrainingConfig  `yaml:"training"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// TrainingConfig holds the calculation settings.
type TrainingConfig struct {
	BarWeight          float64        `yaml:"bar_weight"`
	RoundTo            float64        `yaml:"round_to"`
	Plates             []float64      `yaml:"plates"`
	BBBPercent         float64        `yaml:"bbb_percent"`
	AutoTMPercent      float64        `yaml:"auto_tm_percent"`
	ProgressionStyle   string         `yaml:"tm_progression_style"`
	IncludeDeload      bool           `yaml:"include_deload"`
	JokerTripleStepPct float64        `yaml:"joker_triple_step_pct"`
	JokerSingleStepPct float64        `yaml:"joker_single_step_pct"`
	JokerMaxOverTMPct  float64        `yaml:"joker_max_over_tm_pct"`
	UpperBump          float64        `yaml:"upper_bump"`
	LowerBump          float64        `yaml:"lower_bump"`
	UpperCap           float64        `yaml:"upper_cap"`
	LowerCap           float64        `yaml:"lower_cap"`
	Estimate           EstimateConfig `yaml:"estimate"`
}

// EstimateConfig controls the one-rep-max estimators.
type EstimateConfig struct {
	Formula            string `yaml:"formula"`
	PRFormula          string `yaml:"pr_formula"`
	SoftWarnAt         int    `yaml:"soft_warn_at"`
	HardCap            int    `yaml:"hard_cap"`
	RefuseAboveHardCap *bool  `yaml:"refuse_above_hard_cap"`
}

// DefaultTraining returns the standard pound-based settings.
func DefaultTraining() TrainingConfig {
	refuse := true
	return TrainingConfig{
		BarWeight:          45,
		RoundTo:            5,
		Plates:             []float64{45, 35, 25, 10, 5, 2.5},
		BBBPercent:         0.50,
		AutoTMPercent:      90,
		ProgressionStyle:   "classic",
		JokerTripleStepPct: 0.05,
		JokerSingleStepPct: 0.10,
		JokerMaxOverTMPct:  0.10,
		UpperBump:          5,
		LowerBump:          10,
		UpperCap:           10,
		LowerCap:           20,
		Estimate: EstimateConfig{
			Formula:            "epley",
			PRFormula:          "epley",
			SoftWarnAt:         11,
			HardCap:            15,
			RefuseAboveHardCap: &refuse,
		},
	}
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix LIFTCALC_ and underscore-separated paths:
//
//	LIFTCALC_SERVER_HOST, LIFTCALC_SERVER_PORT,
//	LIFTCALC_DB_HOST, LIFTCALC_DB_PORT, LIFTCALC_DB_NAME,
//	LIFTCALC_DB_USER, LIFTCALC_DB_PASSWORD, LIFTCALC_DB_SSLMODE,
//	LIFTCALC_AUTH_API_KEY, LIFTCALC_TAILSCALE_ENABLED,
//	LIFTCALC_BAR_WEIGHT, LIFTCALC_ROUND_TO, LIFTCALC_TM_PROGRESSION_STYLE
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.Training.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadTraining reads only the training section, for the local tools that
// need no server or database. A missing path yields the defaults.
func LoadTraining(path string) (TrainingConfig, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return TrainingConfig{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return TrainingConfig{}, fmt.Errorf("parsing config file: %w", err)
		}
	}
	applyEnvOverrides(cfg)
	cfg.Training.applyDefaults()
	if err := cfg.Training.Validate(); err != nil {
		return TrainingConfig{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg.Training, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTCALC_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LIFTCALC_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LIFTCALC_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("LIFTCALC_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("LIFTCALC_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("LIFTCALC_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("LIFTCALC_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("LIFTCALC_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("LIFTCALC_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("LIFTCALC_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("LIFTCALC_BAR_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Training.BarWeight = f
		}
	}
	if v := os.Getenv("LIFTCALC_ROUND_TO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Training.RoundTo = f
		}
	}
	if v := os.Getenv("LIFTCALC_TM_PROGRESSION_STYLE"); v != "" {
		cfg.Training.ProgressionStyle = v
	}
}

// applyDefaults fills every unset training field with its default.
func (t *TrainingConfig) applyDefaults() {
	d := DefaultTraining()
	if t.BarWeight == 0 {
		t.BarWeight = d.BarWeight
	}
	if t.RoundTo == 0 {
		t.RoundTo = d.RoundTo
	}
	if len(t.Plates) == 0 {
		t.Plates = d.Plates
	}
	if t.BBBPercent == 0 {
		t.BBBPercent = d.BBBPercent
	}
	if t.AutoTMPercent == 0 {
		t.AutoTMPercent = d.AutoTMPercent
	}
	if t.ProgressionStyle == "" {
		t.ProgressionStyle = d.ProgressionStyle
	}
	if t.JokerTripleStepPct == 0 {
		t.JokerTripleStepPct = d.JokerTripleStepPct
	}
	if t.JokerSingleStepPct == 0 {
		t.JokerSingleStepPct = d.JokerSingleStepPct
	}
	if t.JokerMaxOverTMPct == 0 {
		t.JokerMaxOverTMPct = d.JokerMaxOverTMPct
	}
	if t.UpperBump == 0 {
		t.UpperBump = d.UpperBump
	}
	if t.LowerBump == 0 {
		t.LowerBump = d.LowerBump
	}
	if t.UpperCap == 0 {
		t.UpperCap = d.UpperCap
	}
	if t.LowerCap == 0 {
		t.LowerCap = d.LowerCap
	}
	if t.Estimate.Formula == "" {
		t.Estimate.Formula = d.Estimate.Formula
	}
	if t.Estimate.PRFormula == "" {
		t.Estimate.PRFormula = d.Estimate.PRFormula
	}
	if t.Estimate.SoftWarnAt == 0 {
		t.Estimate.SoftWarnAt = d.Estimate.SoftWarnAt
	}
	if t.Estimate.HardCap == 0 {
		t.Estimate.HardCap = d.Estimate.HardCap
	}
	if t.Estimate.RefuseAboveHardCap == nil {
		t.Estimate.RefuseAboveHardCap = d.Estimate.RefuseAboveHardCap
	}
}

// Refuse reports whether estimates above the hard cap are refused.
func (e EstimateConfig) Refuse() bool {
	return e.RefuseAboveHardCap == nil || *e.RefuseAboveHardCap
}

// Validate checks the training settings against their allowed ranges.
func (t TrainingConfig) Validate() error {
	if !finite(t.BarWeight) || t.BarWeight < 0 {
		return fmt.Errorf("training.bar_weight must be a finite non-negative number")
	}
	if !finite(t.RoundTo) || t.RoundTo <= 0 {
		return fmt.Errorf("training.round_to must be a finite positive number")
	}
	if t.BBBPercent < 0.40 || t.BBBPercent > 0.70 {
		return fmt.Errorf("training.bbb_percent must be between 0.40 and 0.70, got %v", t.BBBPercent)
	}
	if t.AutoTMPercent < 80 || t.AutoTMPercent > 95 {
		return fmt.Errorf("training.auto_tm_percent must be between 80 and 95, got %v", t.AutoTMPercent)
	}
	switch t.ProgressionStyle {
	case "classic", "auto":
	default:
		return fmt.Errorf("training.tm_progression_style must be classic or auto, got %q", t.ProgressionStyle)
	}
	if t.JokerTripleStepPct <= 0 || t.JokerSingleStepPct <= 0 {
		return fmt.Errorf("training joker step percentages must be positive")
	}
	if t.JokerMaxOverTMPct < 0 || t.JokerMaxOverTMPct > 0.20 {
		return fmt.Errorf("training.joker_max_over_tm_pct must be between 0 and 0.20, got %v", t.JokerMaxOverTMPct)
	}
	if !knownFormula(t.Estimate.Formula, "epley", "wendler") {
		return fmt.Errorf("training.estimate.formula must be epley or wendler, got %q", t.Estimate.Formula)
	}
	if !knownFormula(t.Estimate.PRFormula, "epley", "brzycki", "lombardi") {
		return fmt.Errorf("training.estimate.pr_formula must be epley, brzycki or lombardi, got %q", t.Estimate.PRFormula)
	}
	if t.Estimate.SoftWarnAt > t.Estimate.HardCap {
		return fmt.Errorf("training.estimate.soft_warn_at (%d) must not exceed hard_cap (%d)",
			t.Estimate.SoftWarnAt, t.Estimate.HardCap)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return c.Training.Validate()
}

func knownFormula(name string, allowed ...string) bool {
	return slices.Contains(allowed, name)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
