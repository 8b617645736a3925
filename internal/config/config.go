package config

import (
	"FlowTagger/internal/errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Unknown protocol policies accepted by ClassifierConfig.UnknownProtocol.
const (
	UnknownProtocolStrict     = "strict"
	UnknownProtocolPermissive = "permissive"
)

// InputConfig holds the locations of the two input files.
type InputConfig struct {
	RulesPath string `yaml:"rules_path"`
	LogPath   string `yaml:"log_path"`
}

// ClassifierConfig holds the settings of the tag aggregator.
type ClassifierConfig struct {
	Name            string `yaml:"name"`
	UnknownProtocol string `yaml:"unknown_protocol"`
}

// OutputConfig holds where the report is written. An empty path or "-" means stdout.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Output     OutputConfig     `yaml:"output"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			RulesPath: "resource/mapping.csv",
			LogPath:   "resource/network_traffic.csv",
		},
		Classifier: ClassifierConfig{
			Name:            "default",
			UnknownProtocol: UnknownProtocolStrict,
		},
	}
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
// Keys absent from the file keep their default values.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Attr(errors.Wrap(err, errors.KindResourceUnavailable, "failed to read config file"), "path", filePath)
	}

	cfg := Default()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindValidation, "failed to unmarshal config YAML")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filePath, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.Input.RulesPath == "" {
		return errors.New(errors.KindValidation, "input.rules_path is required")
	}
	if c.Input.LogPath == "" {
		return errors.New(errors.KindValidation, "input.log_path is required")
	}
	switch c.Classifier.UnknownProtocol {
	case "", UnknownProtocolStrict, UnknownProtocolPermissive:
	default:
		return errors.Errorf(errors.KindValidation,
			"classifier.unknown_protocol must be %q or %q, got %q",
			UnknownProtocolStrict, UnknownProtocolPermissive, c.Classifier.UnknownProtocol)
	}
	return nil
}

// Permissive reports whether unknown protocol numbers are counted instead of aborting the run.
func (c *Config) Permissive() bool {
	return c.Classifier.UnknownProtocol == UnknownProtocolPermissive
}

// ToStdout reports whether the report goes to standard output.
func (c *Config) ToStdout() bool {
	return c.Output.Path == "" || c.Output.Path == "-"
}
