package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Slots lists the configuration slots of the four remote classifiers
var Slots = []string{"bilstm", "rl", "pu", "gan"}

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	return NewFromFile("")
}

// NewFromFile creates a new configuration instance. An empty path searches the default locations.
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/spam-ensemble/")
		v.AddConfigPath("$HOME/.spam-ensemble")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("SPAM_ENSEMBLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

var defaultFields = map[string][]string{
	"bilstm": {"spam_confidence", "confidence"},
	"rl":     {"spam_probability"},
	"pu":     {"probability"},
	"gan":    {"spam_probability"},
}

var defaultSpaces = map[string]string{
	"bilstm": "https://aavv4-bilstmmodel.hf.space",
	"rl":     "https://aavv4-rlmodel.hf.space",
	"pu":     "https://aavv4-pulearningmodel.hf.space",
	"gan":    "https://aavv4-ganbertmodel.hf.space",
}

func setDefaults(v *viper.Viper) {
	// HTTP server
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.listen_address", "0.0.0.0:8000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("server.ui_enabled", true)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})

	// SMTP content filter
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.listen_address", "0.0.0.0:10025")
	v.SetDefault("smtp.model", "ensemble")
	v.SetDefault("smtp.block_spam", false)
	v.SetDefault("smtp.headers.spam", "X-Spam-Status")
	v.SetDefault("smtp.headers.score", "X-Spam-Score")
	v.SetDefault("smtp.headers.model", "X-Spam-Model")
	v.SetDefault("smtp.relay.enabled", true)
	v.SetDefault("smtp.relay.address", "127.0.0.1")
	v.SetDefault("smtp.relay.port", 10026)
	v.SetDefault("smtp.subject_prefix", "[**SPAM**] ")
	v.SetDefault("smtp.modify_subject", false)
	v.SetDefault("smtp.trusted_senders", []string{})
	v.SetDefault("smtp.timeout", "60s")

	// Remote classifiers
	for _, slot := range Slots {
		v.SetDefault("models."+slot+".backend", "gradio")
		v.SetDefault("models."+slot+".url", defaultSpaces[slot])
		v.SetDefault("models."+slot+".api_name", "/predict")
		v.SetDefault("models."+slot+".fields", defaultFields[slot])
		v.SetDefault("models."+slot+".hf_token", "")
	}
	v.SetDefault("remote.timeout", "120s")
	v.SetDefault("evaluation.concurrency", 4)
	v.SetDefault("text.max_length", 4096)

	// LLM backends
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 1000)
	v.SetDefault("bedrock.temperature", 0.1)
	v.SetDefault("bedrock.top_p", 0.9)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 1000)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.top_p", 0.9)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.top_p", 0.9)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetInt64 gets an int64 value from the configuration
func (c *Config) GetInt64(key string) int64 {
	return c.v.GetInt64(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	d, err := time.ParseDuration(c.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// Set overrides a value, typically from a command line flag
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
