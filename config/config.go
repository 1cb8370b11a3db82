package config

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const DefaultTolerance = 1e-4

type Config struct {
	// Max per-element difference between a matrix and its
	// regenerated TRS before it counts as non-decomposable
	Tolerance float32 `yaml:"tolerance"`

	// Check matrices passed to SetMatrix/SetWorldMatrix and
	// warn about shear or mirroring that decomposition drops
	StrictDecompose bool `yaml:"strict_decompose"`

	LogLevel string `yaml:"log_level"`
}

var current = Default()

func Default() Config {
	return Config{
		Tolerance: DefaultTolerance,
		LogLevel:  "info",
	}
}

func Get() Config {
	return current
}

func Set(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	current = c
	return nil
}

func (c Config) Validate() error {
	if !(c.Tolerance > 0) {
		return errors.Errorf("Tolerance must be positive, got %v", c.Tolerance)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "Invalid log level %q", c.LogLevel)
	}
	return nil
}

// Parse reads yaml, fields missing in data keep their Default values
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "Unmarshaling error")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "Cannot read file %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "Cannot parse file %s", path)
	}
	return c, nil
}

func NewLogger(c Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid log level %q", c.LogLevel)
	}
	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zc.Build()
}
