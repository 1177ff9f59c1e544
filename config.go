package opsrelay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/opsrelay/opsrelay/policy"
)

// Config is the engine's serialisable configuration.
type Config struct {
	// MaxRetries is the repair retry budget on top of the first attempt.
	MaxRetries int `json:"maxRetries" yaml:"maxRetries"`

	// Prompt versions per module; empty means v1.
	NotificationVersion string `json:"notificationVersion,omitempty" yaml:"notificationVersion,omitempty"`
	PlanVersion         string `json:"planVersion,omitempty" yaml:"planVersion,omitempty"`
	SummaryVersion      string `json:"summaryVersion,omitempty" yaml:"summaryVersion,omitempty"`

	// PromptURL, when set, loads prompts from this base location instead of
	// the built-in templates.
	PromptURL string `json:"promptURL,omitempty" yaml:"promptURL,omitempty"`

	// ToolEndpoint, when set, points tool services at a tool server base URL;
	// empty means simulated delivery.
	ToolEndpoint string `json:"toolEndpoint,omitempty" yaml:"toolEndpoint,omitempty"`

	// Policy is the per-workflow rules table; nil means the default rules.
	Policy *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// DefaultConfig returns the out-of-the-box configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:          1,
		NotificationVersion: "v1",
		PlanVersion:         "v1",
		SummaryVersion:      "v1",
		Policy:              policy.DefaultConfig(),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("maxRetries must not be negative: %d", c.MaxRetries)
	}
	if c.Policy != nil {
		if err := c.Policy.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
