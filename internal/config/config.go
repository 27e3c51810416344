package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/jgoulah/studytrack/internal/merge"
)

// EnvPrefix is the prefix for environment overrides (STUDYTRACK_BREAK_WEEKS, ...)
const EnvPrefix = "STUDYTRACK"

// Config holds the application configuration
type Config struct {
	BreakWeeks     []int      `yaml:"break_weeks,omitempty"`     // ISO weeks flagged as break (fallback: 12, 13)
	NumericColumns []string   `yaml:"numeric_columns,omitempty"` // Thousands-separated columns coerced to float
	DropColumns    []string   `yaml:"drop_columns,omitempty"`    // Helper columns removed from the merged output
	DateKeyLayout  string     `yaml:"date_key_layout,omitempty"` // Go layout for the join key
	LogLevel       string     `yaml:"log_level,omitempty"`       // debug, info, warn, error
	MQTT           MQTTConfig `yaml:"mqtt,omitempty"`
}

// MQTTConfig holds broker settings for publishing merged days
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // e.g., "localhost:1883"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // e.g., "studytrack"
	ClientID    string `yaml:"client_id,omitempty"`
}

// envOverrides are applied on top of the file. Unset variables leave the
// file values alone.
type envOverrides struct {
	BreakWeeks     []int    `envconfig:"BREAK_WEEKS"`
	NumericColumns []string `envconfig:"NUMERIC_COLUMNS"`
	DateKeyLayout  string   `envconfig:"DATE_KEY_LAYOUT"`
	LogLevel       string   `envconfig:"LOG_LEVEL"`
	MQTTBroker     string   `envconfig:"MQTT_BROKER"`
	MQTTUsername   string   `envconfig:"MQTT_USERNAME"`
	MQTTPassword   string   `envconfig:"MQTT_PASSWORD"`
}

// Load reads the config file and applies environment overrides
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
		// Missing file means defaults
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return err
	}

	if len(env.BreakWeeks) > 0 {
		c.BreakWeeks = env.BreakWeeks
	}
	if len(env.NumericColumns) > 0 {
		c.NumericColumns = env.NumericColumns
	}
	if env.DateKeyLayout != "" {
		c.DateKeyLayout = env.DateKeyLayout
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
	if env.MQTTBroker != "" {
		c.MQTT.Broker = env.MQTTBroker
	}
	if env.MQTTUsername != "" {
		c.MQTT.Username = env.MQTTUsername
	}
	if env.MQTTPassword != "" {
		c.MQTT.Password = env.MQTTPassword
	}
	return nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetBreakWeeks returns the break week numbers, defaulting to weeks 12 and 13
func (c *Config) GetBreakWeeks() []int {
	if len(c.BreakWeeks) == 0 {
		return append([]int(nil), merge.DefaultBreakWeeks...)
	}
	return c.BreakWeeks
}

// GetNumericColumns returns the columns to coerce to float
func (c *Config) GetNumericColumns() []string {
	if len(c.NumericColumns) == 0 {
		return append([]string(nil), merge.DefaultNumericColumns...)
	}
	return c.NumericColumns
}

// GetDropColumns returns the helper columns dropped from the merged output
func (c *Config) GetDropColumns() []string {
	if len(c.DropColumns) == 0 {
		return append([]string(nil), merge.DefaultDropColumns...)
	}
	return c.DropColumns
}

// GetDateKeyLayout returns the day key layout, or "" for the package default
func (c *Config) GetDateKeyLayout() string {
	return c.DateKeyLayout
}

// GetTopicPrefix returns the MQTT topic prefix with a default of "studytrack"
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "studytrack"
	}
	return c.MQTT.TopicPrefix
}

// GetClientID returns the MQTT client id with a default of "studytrack"
func (c *Config) GetClientID() string {
	if c.MQTT.ClientID == "" {
		return "studytrack"
	}
	return c.MQTT.ClientID
}
