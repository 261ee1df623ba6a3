/*
Package config loads and validates the application configuration from a YAML
file with environment-variable overrides for credentials.
*/
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Calendar  ProviderConfig  `yaml:"calendar"`
	Filings   FilingsConfig   `yaml:"filings"`
	LLM       LLMConfig       `yaml:"llm"`
	Email     EmailConfig     `yaml:"email"`
	Companies []CompanyConfig `yaml:"companies" validate:"dive"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// ProviderConfig holds credentials for a token-authenticated provider. The
// calendar, transcript and quote endpoints share one token.
type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
}

// FilingsConfig configures the filings registry client. The registry mandates
// an identification header naming the requesting party.
type FilingsConfig struct {
	UserAgent string `yaml:"user_agent"`
}

type LLMConfig struct {
	GeminiAPIKey    string  `yaml:"gemini_api_key"`
	AnthropicAPIKey string  `yaml:"anthropic_api_key"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature" validate:"gte=0,lte=2"`
}

// EmailConfig holds SMTP settings for the optional event digest.
type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port" validate:"omitempty,gt=0,lte=65535"`
	SMTPUser   string `yaml:"smtp_user"`
	SMTPPass   string `yaml:"smtp_pass"`
	FromEmail  string `yaml:"from_email" validate:"omitempty,email"`
	ToEmail    string `yaml:"to_email" validate:"omitempty,email"`
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (e EmailConfig) Enabled() bool {
	return e.SMTPServer != "" && e.SMTPUser != "" && e.SMTPPass != "" && e.ToEmail != ""
}

// CompanyConfig is one extra registry row merged into the built-in company
// table at startup.
type CompanyConfig struct {
	Name       string `yaml:"name" validate:"required"`
	Ticker     string `yaml:"ticker" validate:"required,alphanum"`
	RegistryID string `yaml:"registry_id" validate:"omitempty,numeric"`
}

// Default returns a configuration populated from environment variables only.
func Default() *Config {
	cfg := &Config{}
	cfg.Logging.Level = "info"
	cfg.LLM.Model = "gemini-2.5-flash"
	cfg.applyEnv()
	return cfg
}

// Load reads a YAML config file, applies environment overrides and validates
// the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration shape.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnv overlays credentials from the environment. Environment values win
// over file values so secrets can stay out of config files.
func (c *Config) applyEnv() {
	if v := os.Getenv("FINSCOPE_API_KEY"); v != "" {
		c.Calendar.APIKey = v
	}
	if v := os.Getenv("FINSCOPE_FILINGS_USER_AGENT"); v != "" {
		c.Filings.UserAgent = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.GeminiAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.LLM.AnthropicAPIKey = v
	}
}
