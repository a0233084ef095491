package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Telegram TelegramConfig `yaml:"telegram"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// PipelineConfig holds every tunable threshold of the decision pipeline.
// Components receive it explicitly; there are no package-level knobs.
type PipelineConfig struct {
	MatchThreshold     int                `yaml:"match_threshold"`       // min team-name similarity (0-100)
	OddsMinimums       map[string]float64 `yaml:"odds_minimums"`         // per bet type, e.g. home_over_05: 1.25
	MinMLProbability   float64            `yaml:"min_ml_probability"`    // floor for scored candidates, 0 disables
	KeepFraction       float64            `yaml:"keep_fraction"`         // share of scored candidates kept
	MaxTicketSize      int                `yaml:"max_ticket_size"`       // selections per ticket
	MinTrainingSamples int                `yaml:"min_training_samples"`  // below this a bet type's model is skipped
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`     // debug, info, warn, error
	Format   string `yaml:"format"`    // text or json
	FilePath string `yaml:"file_path"` // optional JSON log file, empty disables
}

// Default odds minimums per bet type, matching the market rules.
const (
	DefaultHomeOverMinOdds = 1.25
	DefaultHomeDrawMinOdds = 1.35
	DefaultOver15MinOdds   = 1.35
)

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.Pipeline.ApplyDefaults()
	return &config, nil
}

// ApplyDefaults fills in zero-valued pipeline thresholds.
func (c *PipelineConfig) ApplyDefaults() {
	if c.MatchThreshold <= 0 || c.MatchThreshold > 100 {
		c.MatchThreshold = 85
	}
	if c.OddsMinimums == nil {
		c.OddsMinimums = map[string]float64{}
	}
	if c.OddsMinimums["home_over_05"] == 0 {
		c.OddsMinimums["home_over_05"] = DefaultHomeOverMinOdds
	}
	if c.OddsMinimums["home_draw"] == 0 {
		c.OddsMinimums["home_draw"] = DefaultHomeDrawMinOdds
	}
	if c.OddsMinimums["over_1_5"] == 0 {
		c.OddsMinimums["over_1_5"] = DefaultOver15MinOdds
	}
	if c.KeepFraction <= 0 || c.KeepFraction > 1 {
		c.KeepFraction = 0.75
	}
	if c.MaxTicketSize <= 0 {
		c.MaxTicketSize = 3
	}
	if c.MinTrainingSamples <= 0 {
		c.MinTrainingSamples = 30
	}
}
