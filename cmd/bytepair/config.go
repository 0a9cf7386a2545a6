package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the bytepair configuration file (~/.config/bytepair/config.yaml).
// Numeric fields are pointers so we can distinguish "not set" from zero values.
type Config struct {
	Vocab    string `yaml:"vocab"`
	VocabDir string `yaml:"vocab_dir"`

	// Training defaults
	VocabSize      *int64   `yaml:"vocab_size"`
	MinFrequency   *int64   `yaml:"min_frequency"`
	MaxCompression *float64 `yaml:"max_compression"`
	Normalize      string   `yaml:"normalize"`

	// Server
	ServerAddress string `yaml:"server_address"`
	CacheSize     *int64 `yaml:"cache_size"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bytepair", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or can't be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	cfg, err := readConfig(path)
	if err != nil {
		return Config{}
	}
	return cfg
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyLogConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyVocabConfig applies config file defaults to the shared vocab flags
// when the corresponding CLI flag was not explicitly set.
func applyVocabConfig(c *cli.Command, cfg Config) {
	if cfg.Vocab != "" && !c.IsSet("vocab") {
		vocabPath = cfg.Vocab
	}
	if cfg.VocabDir != "" && !c.IsSet("vocab-dir") {
		vocabDir = cfg.VocabDir
	}
}

func applyTrainConfig(c *cli.Command, cfg Config,
	vocabSize, minFrequency *int64, maxCompression *float64, normalize *string,
) {
	if cfg.VocabSize != nil && !c.IsSet("vocab-size") {
		*vocabSize = *cfg.VocabSize
	}
	if cfg.MinFrequency != nil && !c.IsSet("min-frequency") {
		*minFrequency = *cfg.MinFrequency
	}
	if cfg.MaxCompression != nil && !c.IsSet("max-compression") {
		*maxCompression = *cfg.MaxCompression
	}
	if cfg.Normalize != "" && !c.IsSet("normalize") {
		*normalize = cfg.Normalize
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string, cacheSize *int64) {
	applyVocabConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.CacheSize != nil && !c.IsSet("cache-size") {
		*cacheSize = *cfg.CacheSize
	}
}
