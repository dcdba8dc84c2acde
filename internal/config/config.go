package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"losrisk/pkg/utils"
)

const (
	EnvSeed          = "LOSRISK_SEED"
	EnvScoringMetric = "LOSRISK_SCORING_METRIC"
	EnvReportDir     = "LOSRISK_REPORT_DIR"
)

// Split holds the train, validate and test fractions. They are expected to
// sum to 1 but that is not enforced.
type Split struct {
	Train    float64 `yaml:"train" toml:"train" json:"train" validate:"gt=0,lt=1"`
	Validate float64 `yaml:"validate" toml:"validate" json:"validate" validate:"gt=0,lt=1"`
	Test     float64 `yaml:"test" toml:"test" json:"test" validate:"gt=0,lt=1"`
}

type Log struct {
	Level string `yaml:"level" toml:"level" json:"level" validate:"omitempty,oneof=debug info warn warning error"`
	File  string `yaml:"file" toml:"file" json:"file"`
}

// Config drives a pipeline run.
type Config struct {
	Split         Split  `yaml:"split" toml:"split" json:"split"`
	Seed          int64  `yaml:"seed" toml:"seed" json:"seed"`
	ScoringMetric string `yaml:"scoring_metric" toml:"scoring_metric" json:"scoring_metric" validate:"oneof=rmse f1_weighted"`
	ReportDir     string `yaml:"report_dir" toml:"report_dir" json:"report_dir"`
	Log           Log    `yaml:"log" toml:"log" json:"log"`
}

func Default() *Config {
	return &Config{
		Split:         Split{Train: 0.6, Validate: 0.2, Test: 0.2},
		Seed:          42,
		ScoringMetric: "rmse",
		Log:           Log{Level: "info"},
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over the defaults,
// applies environment overrides, validates the result and installs the
// configured logger.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, c)
	case ".toml":
		err = toml.Unmarshal(b, c)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	utils.SetLogger(c.Logger())
	return c, nil
}

// Logger builds a logger from the log section.
func (c *Config) Logger() *zap.Logger {
	return utils.New(c.Log.File, utils.ParseLevel(c.Log.Level))
}

func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Seed = seed
	}
	if v, ok := os.LookupEnv(EnvScoringMetric); ok {
		c.ScoringMetric = v
	}
	if v, ok := os.LookupEnv(EnvReportDir); ok {
		c.ReportDir = v
	}
	return nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
