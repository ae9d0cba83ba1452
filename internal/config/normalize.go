package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"webtranslator/internal/language"
)

func (c *Config) normalize() error {
	c.normalizeServer()
	c.normalizeHTTP()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeTranslation()
	c.normalizeSpeech()
	c.normalizeDetection()
	c.normalizeMedia()
	return c.normalizeLogging()
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if value, ok := os.LookupEnv("WEBTRANSLATOR_BIND"); ok && strings.TrimSpace(value) != "" {
		c.Server.Bind = strings.TrimSpace(value)
	} else if port, ok := os.LookupEnv("PORT"); ok && strings.TrimSpace(port) != "" {
		c.Server.Bind = net.JoinHostPort("0.0.0.0", strings.TrimSpace(port))
	}
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	c.Server.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Server.PublicBaseURL), "/")
}

func (c *Config) normalizeHTTP() {
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = defaultMaxUploadMB
	}
	origins := make([]string, 0, len(c.HTTP.CORSAllowedOrigins))
	for _, origin := range c.HTTP.CORSAllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.HTTP.CORSAllowedOrigins = origins
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ArtifactDir) == "" {
		c.Paths.ArtifactDir = defaultArtifactDir
	}
	if c.Paths.ArtifactDir, err = expandPath(c.Paths.ArtifactDir); err != nil {
		return fmt.Errorf("paths.artifact_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = defaultTranscriptionProvider
	}
	c.Transcription.APIKey = strings.TrimSpace(c.Transcription.APIKey)
	c.Transcription.BaseURL = strings.TrimSpace(c.Transcription.BaseURL)
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)

	switch c.Transcription.Provider {
	case ProviderAssemblyAI:
		if c.Transcription.APIKey == "" {
			if value, ok := os.LookupEnv("ASSEMBLYAI_API_KEY"); ok {
				c.Transcription.APIKey = strings.TrimSpace(value)
			}
		}
		if c.Transcription.BaseURL == "" {
			c.Transcription.BaseURL = defaultAssemblyAIBaseURL
		}
	case ProviderOpenAI:
		if c.Transcription.APIKey == "" {
			if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
				c.Transcription.APIKey = strings.TrimSpace(value)
			}
		}
		if c.Transcription.BaseURL == "" {
			c.Transcription.BaseURL = defaultOpenAIBaseURL
		}
		if c.Transcription.Model == "" {
			c.Transcription.Model = defaultOpenAIModel
		}
	}
}

func (c *Config) normalizeTranslation() {
	c.Translation.BaseURL = strings.TrimRight(strings.TrimSpace(c.Translation.BaseURL), "/")
	if c.Translation.BaseURL == "" {
		c.Translation.BaseURL = defaultTranslationBaseURL
	}
	c.Translation.Email = strings.TrimSpace(c.Translation.Email)
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeout
	}
}

func (c *Config) normalizeSpeech() {
	c.Speech.BaseURL = strings.TrimRight(strings.TrimSpace(c.Speech.BaseURL), "/.")
	if c.Speech.BaseURL == "" {
		c.Speech.BaseURL = defaultSpeechBaseURL
	}
	c.Speech.TLD = strings.Trim(strings.TrimSpace(c.Speech.TLD), ".")
	if c.Speech.TLD == "" {
		c.Speech.TLD = defaultSpeechTLD
	}
	if c.Speech.TimeoutSeconds <= 0 {
		c.Speech.TimeoutSeconds = defaultSpeechTimeout
	}
}

func (c *Config) normalizeDetection() {
	c.Detection.Candidates = language.NormalizeList(c.Detection.Candidates)
}

func (c *Config) normalizeMedia() {
	c.Media.FFmpegBinary = strings.TrimSpace(c.Media.FFmpegBinary)
	if c.Media.FFmpegBinary == "" {
		c.Media.FFmpegBinary = defaultFFmpegBinary
	}
	c.Media.FFprobeBinary = strings.TrimSpace(c.Media.FFprobeBinary)
	if c.Media.FFprobeBinary == "" {
		c.Media.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Media.SampleRate <= 0 {
		c.Media.SampleRate = defaultSampleRate
	}
	if c.Media.Channels <= 0 {
		c.Media.Channels = defaultChannels
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
