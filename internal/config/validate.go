package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateHTTP(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateRetention(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTranscription() error {
	var envName string
	switch c.Transcription.Provider {
	case ProviderAssemblyAI:
		envName = "ASSEMBLYAI_API_KEY"
	case ProviderOpenAI:
		envName = "OPENAI_API_KEY"
	default:
		return fmt.Errorf("transcription.provider: unsupported value %q (expected %q or %q)", c.Transcription.Provider, ProviderAssemblyAI, ProviderOpenAI)
	}
	if c.Transcription.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/webtranslator/config.toml"
		}
		return fmt.Errorf("transcription.api_key is required. Set %s env var or edit %s (create with 'webtranslator config init')", envName, defaultPath)
	}
	if c.Transcription.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.Transcription.BaseURL); err != nil {
			return fmt.Errorf("transcription.base_url: %w", err)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Bind == "" {
		return errors.New("server.bind must be set")
	}
	if c.Server.PublicBaseURL != "" {
		parsed, err := url.Parse(c.Server.PublicBaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("server.public_base_url must be an absolute URL, got %q", c.Server.PublicBaseURL)
		}
	}
	return nil
}

func (c *Config) validateHTTP() error {
	if c.HTTP.RateLimitPerMinute < 0 {
		return errors.New("http.rate_limit_per_minute must be >= 0")
	}
	if c.HTTP.MaxUploadMB <= 0 {
		return errors.New("http.max_upload_mb must be positive")
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if _, err := url.ParseRequestURI(c.Translation.BaseURL); err != nil {
		return fmt.Errorf("translation.base_url: %w", err)
	}
	if _, err := url.ParseRequestURI(c.Speech.BaseURL + "." + c.Speech.TLD); err != nil {
		return fmt.Errorf("speech.base_url: %w", err)
	}
	return nil
}

func (c *Config) validateRetention() error {
	maxAge, err := parseDuration(c.Retention.MaxAge)
	if err != nil {
		return fmt.Errorf("retention.max_age: %w", err)
	}
	if maxAge < 0 {
		return errors.New("retention.max_age must be >= 0")
	}
	interval, err := parseDuration(c.Retention.SweepInterval)
	if err != nil {
		return fmt.Errorf("retention.sweep_interval: %w", err)
	}
	if maxAge > 0 && interval <= 0 {
		return errors.New("retention.sweep_interval must be positive when retention.max_age is set")
	}
	return nil
}

func (c *Config) validateDetection() error {
	if c.Detection.MinConfidence < 0 || c.Detection.MinConfidence > 1 {
		return fmt.Errorf("detection.min_confidence must be between 0 and 1, got %g", c.Detection.MinConfidence)
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.Channels > 2 {
		return fmt.Errorf("media.channels must be 1 or 2, got %d", c.Media.Channels)
	}
	if c.Media.SampleRate < 8000 {
		return fmt.Errorf("media.sample_rate must be >= 8000, got %d", c.Media.SampleRate)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
