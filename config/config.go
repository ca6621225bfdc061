// Package config loads the run configuration and builds the logger.
//
// Configuration is a YAML file read through viper. Missing keys fall back to
// defaults, environment variables prefixed with GOSEP_ override file values
// (GOSEP_SONG_WINDOW_SIZE for song.window_size), and a file that does not
// exist yet is created with the defaults so they can be edited.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/neurlang/gosep/spectral"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("config: invalid")

type Logging struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"` // debug|info|warning|error|critical
	Type  string `mapstructure:"type" yaml:"type"`   // console|file
}

// Song holds the parameters every song is loaded and transformed with.
type Song struct {
	SampleRate   int `mapstructure:"sample_rate" yaml:"sample_rate"`
	WindowSize   int `mapstructure:"window_size" yaml:"window_size"`
	HopLength    int `mapstructure:"hop_length" yaml:"hop_length"`
	SampleLength int `mapstructure:"sample_length" yaml:"sample_length"`
}

type Spectral struct {
	TopDB float64 `mapstructure:"top_db" yaml:"top_db"`
	AMin  float64 `mapstructure:"amin" yaml:"amin"`
}

type Labels struct {
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
}

type Mask struct {
	Cutoff         float64 `mapstructure:"cutoff" yaml:"cutoff"`
	IdealThreshold float64 `mapstructure:"ideal_threshold" yaml:"ideal_threshold"`
}

type Model struct {
	SaveHistory       bool    `mapstructure:"save_history" yaml:"save_history"`
	HistoryFilename   string  `mapstructure:"history_filename" yaml:"history_filename"`
	BatchSize         int     `mapstructure:"batch_size" yaml:"batch_size"`
	LearningRate      float64 `mapstructure:"learning_rate" yaml:"learning_rate"`
	CheckpointEvery   int     `mapstructure:"checkpoint_every" yaml:"checkpoint_every"`
	CheckpointPattern string  `mapstructure:"checkpoint_pattern" yaml:"checkpoint_pattern"`
}

type Cache struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Config is the root of config.yaml.
type Config struct {
	Logging  Logging  `mapstructure:"logging" yaml:"logging"`
	Song     Song     `mapstructure:"song" yaml:"song"`
	Spectral Spectral `mapstructure:"spectral" yaml:"spectral"`
	Labels   Labels   `mapstructure:"labels" yaml:"labels"`
	Mask     Mask     `mapstructure:"mask" yaml:"mask"`
	Model    Model    `mapstructure:"model" yaml:"model"`
	Cache    Cache    `mapstructure:"cache" yaml:"cache"`
}

var defaults = map[string]any{
	"logging.file":  "log.txt",
	"logging.level": "info",
	"logging.type":  "console",

	// 22050 Hz is plenty for voice; window_size/2+1 frequency bins reach the classifier.
	"song.sample_rate":   22050,
	"song.window_size":   1024,
	"song.hop_length":    256,
	"song.sample_length": 25,

	"spectral.top_db": 80.0,
	"spectral.amin":   1e-10,

	"labels.threshold": 1.0,

	"mask.cutoff":          0.45,
	"mask.ideal_threshold": 0.01,

	"model.save_history":       true,
	"model.history_filename":   "history.csv",
	"model.batch_size":         32,
	"model.learning_rate":      0.05,
	"model.checkpoint_every":   5,
	"model.checkpoint_pattern": "weights%08d.msgpack",

	"cache.dir": "",
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("GOSEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the built-in configuration.
func Default() *Config {
	var c Config
	if err := newViper().Unmarshal(&c); err != nil {
		panic(err)
	}
	return &c
}

// Load reads path, applying defaults and environment overrides. When path
// does not exist the resolved configuration is written to it.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if exists {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !exists && errors.Is(statErr, os.ErrNotExist) {
		if err := Write(path, &c); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// Write stores c as YAML.
func Write(path string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Song.SampleRate <= 0 {
		return fmt.Errorf("%w: song.sample_rate %d", ErrInvalid, c.Song.SampleRate)
	}
	if c.Song.SampleLength < 1 {
		return fmt.Errorf("%w: song.sample_length %d", ErrInvalid, c.Song.SampleLength)
	}
	if err := c.Transform().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Mask.Cutoff < 0 || c.Mask.Cutoff > 1 {
		return fmt.Errorf("%w: mask.cutoff %g outside [0, 1]", ErrInvalid, c.Mask.Cutoff)
	}
	if c.Model.BatchSize < 1 {
		return fmt.Errorf("%w: model.batch_size %d", ErrInvalid, c.Model.BatchSize)
	}
	if !(c.Model.LearningRate > 0) {
		return fmt.Errorf("%w: model.learning_rate %g", ErrInvalid, c.Model.LearningRate)
	}
	switch c.Logging.Type {
	case "console", "file":
	default:
		return fmt.Errorf("%w: logging.type %q", ErrInvalid, c.Logging.Type)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}

// Transform returns the spectral transform parameters.
func (c *Config) Transform() spectral.Config {
	return spectral.Config{
		WindowSize: c.Song.WindowSize,
		HopLength:  c.Song.HopLength,
		TopDB:      c.Spectral.TopDB,
		AMin:       c.Spectral.AMin,
	}
}

// Bins returns the classifier input height for this configuration.
func (c *Config) Bins() int {
	return c.Transform().Bins()
}
