package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ur65/ico-favicon/internal/resample"
)

type Config struct {
	// Root is the directory the fixed public/ paths are resolved against.
	Root      string          `yaml:"root"`
	Logging   LoggingConfig   `yaml:"logging"`
	Generator GeneratorConfig `yaml:"generator"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type GeneratorConfig struct {
	Filter string `yaml:"filter"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	setDefaults(c)
	return c
}

// Load reads the YAML file at filename. An empty filename yields Default.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}

	setDefaults(&c)

	if err := validate(&c); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &c, nil
}

func setDefaults(c *Config) {
	if c.Root == "" {
		c.Root = "."
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Generator.Filter == "" {
		c.Generator.Filter = resample.Lanczos.String()
	}
}

func validate(c *Config) error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return errors.Errorf("logging format must be text or json (got: %q)", c.Logging.Format)
	}

	if _, err := resample.ParseFilter(c.Generator.Filter); err != nil {
		return err
	}

	return nil
}
