package config

import (
	"fmt"
	"time"
)

// ServerConfig represents the configuration of the HTTP front end
type ServerConfig struct {
	Enabled         bool
	ListenAddress   string
	Mode            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	UIEnabled       bool
	AllowedOrigins  []string
}

// SMTPConfig represents the configuration of the SMTP content filter
type SMTPConfig struct {
	Enabled        bool
	ListenAddress  string
	Model          string
	BlockSpam      bool
	SpamHeader     string
	ScoreHeader    string
	ModelHeader    string
	RelayEnabled   bool
	RelayAddress   string
	RelayPort      int
	SubjectPrefix  string
	ModifySubject  bool
	TrustedSenders []string
	Timeout        time.Duration
}

// ModelConfig represents the configuration of one remote classifier slot
type ModelConfig struct {
	Slot    string
	Backend string
	URL     string
	APIName string
	Fields  []string
	HFToken string
}

// RemoteConfig holds settings shared by all remote classifier calls
type RemoteConfig struct {
	Timeout time.Duration
}

// EvaluationConfig holds batch evaluation settings
type EvaluationConfig struct {
	Concurrency int
}

// TextConfig holds text preparation settings for the LLM backends
type TextConfig struct {
	MaxLength int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	read, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	write, err := c.GetDuration("server.write_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	shutdown, err := c.GetDuration("server.shutdown_timeout")
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Enabled:         c.GetBool("server.enabled"),
		ListenAddress:   c.GetString("server.listen_address"),
		Mode:            c.GetString("server.mode"),
		ReadTimeout:     read,
		WriteTimeout:    write,
		ShutdownTimeout: shutdown,
		MaxUploadBytes:  c.GetInt64("server.max_upload_bytes"),
		UIEnabled:       c.GetBool("server.ui_enabled"),
		AllowedOrigins:  c.GetStringSlice("server.cors.allowed_origins"),
	}, nil
}

// GetSMTP returns the SMTP filter configuration
func (c *Config) GetSMTP() (SMTPConfig, error) {
	timeout, err := c.GetDuration("smtp.timeout")
	if err != nil {
		return SMTPConfig{}, err
	}

	return SMTPConfig{
		Enabled:        c.GetBool("smtp.enabled"),
		ListenAddress:  c.GetString("smtp.listen_address"),
		Model:          c.GetString("smtp.model"),
		BlockSpam:      c.GetBool("smtp.block_spam"),
		SpamHeader:     c.GetString("smtp.headers.spam"),
		ScoreHeader:    c.GetString("smtp.headers.score"),
		ModelHeader:    c.GetString("smtp.headers.model"),
		RelayEnabled:   c.GetBool("smtp.relay.enabled"),
		RelayAddress:   c.GetString("smtp.relay.address"),
		RelayPort:      c.GetInt("smtp.relay.port"),
		SubjectPrefix:  c.GetString("smtp.subject_prefix"),
		ModifySubject:  c.GetBool("smtp.modify_subject"),
		TrustedSenders: c.GetStringSlice("smtp.trusted_senders"),
		Timeout:        timeout,
	}, nil
}

// GetModel returns the configuration of a classifier slot (bilstm, rl, pu or gan)
func (c *Config) GetModel(slot string) (ModelConfig, error) {
	known := false
	for _, s := range Slots {
		if s == slot {
			known = true
			break
		}
	}
	if !known {
		return ModelConfig{}, fmt.Errorf("unknown model slot: %s", slot)
	}

	prefix := "models." + slot + "."
	return ModelConfig{
		Slot:    slot,
		Backend: c.GetString(prefix + "backend"),
		URL:     c.GetString(prefix + "url"),
		APIName: c.GetString(prefix + "api_name"),
		Fields:  c.GetStringSlice(prefix + "fields"),
		HFToken: c.GetString(prefix + "hf_token"),
	}, nil
}

// GetRemote returns the settings shared by remote classifier calls
func (c *Config) GetRemote() (RemoteConfig, error) {
	timeout, err := c.GetDuration("remote.timeout")
	if err != nil {
		return RemoteConfig{}, err
	}
	return RemoteConfig{Timeout: timeout}, nil
}

// GetEvaluation returns the batch evaluation configuration
func (c *Config) GetEvaluation() EvaluationConfig {
	return EvaluationConfig{
		Concurrency: c.GetInt("evaluation.concurrency"),
	}
}

// GetText returns the text preparation configuration
func (c *Config) GetText() TextConfig {
	return TextConfig{
		MaxLength: c.GetInt("text.max_length"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}
