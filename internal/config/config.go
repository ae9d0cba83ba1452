package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains the listen address and public URL settings.
type Server struct {
	Bind          string `toml:"bind"`
	PublicBaseURL string `toml:"public_base_url"`
}

// HTTP contains request handling limits.
type HTTP struct {
	MaxUploadMB        int      `toml:"max_upload_mb"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
}

// Paths contains directory configuration.
type Paths struct {
	ArtifactDir string `toml:"artifact_dir"`
}

// Retention controls how long generated and uploaded artifacts are kept.
type Retention struct {
	MaxAge        string `toml:"max_age"`
	SweepInterval string `toml:"sweep_interval"`
}

// Transcription selects and configures the speech-to-text provider.
type Transcription struct {
	Provider string `toml:"provider"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`
}

// Translation configures the MyMemory translation client.
type Translation struct {
	BaseURL        string `toml:"base_url"`
	Email          string `toml:"email"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Speech configures the Google Translate TTS client.
type Speech struct {
	BaseURL        string `toml:"base_url"`
	TLD            string `toml:"tld"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Detection tunes text language identification.
type Detection struct {
	MinConfidence float64  `toml:"min_confidence"`
	Candidates    []string `toml:"candidates"`
}

// Media contains ffmpeg settings for audio normalization.
type Media struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	SampleRate    int    `toml:"sample_rate"`
	Channels      int    `toml:"channels"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for the translator.
//
// Configuration sections by subsystem:
//   - Server: listen address and public artifact URL base
//   - HTTP: upload cap, rate limiting, CORS
//   - Paths: artifact storage directory
//   - Retention: artifact max age and sweep cadence
//   - Transcription: AssemblyAI or OpenAI Whisper credentials
//   - Translation: MyMemory endpoint
//   - Speech: Google Translate TTS endpoint
//   - Detection: language identification confidence and candidates
//   - Media: ffmpeg/ffprobe binaries and target audio format
//   - Logging: log format, level, and optional file
type Config struct {
	Server        Server        `toml:"server"`
	HTTP          HTTP          `toml:"http"`
	Paths         Paths         `toml:"paths"`
	Retention     Retention     `toml:"retention"`
	Transcription Transcription `toml:"transcription"`
	Translation   Translation   `toml:"translation"`
	Speech        Speech        `toml:"speech"`
	Detection     Detection     `toml:"detection"`
	Media         Media         `toml:"media"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/webtranslator/config.toml")
}

// Load locates, parses, and validates a configuration file. Variables from a
// .env file in the working directory are applied first without overriding the
// real environment. The returned config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, "", false, err
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("webtranslator.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the artifact directory.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.ArtifactDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.ArtifactDir, err)
	}
	return nil
}

// RetentionMaxAge returns the parsed artifact max age. Zero disables sweeping.
func (c *Config) RetentionMaxAge() time.Duration {
	d, _ := parseDuration(c.Retention.MaxAge)
	return d
}

// RetentionSweepInterval returns the parsed sweep cadence.
func (c *Config) RetentionSweepInterval() time.Duration {
	d, _ := parseDuration(c.Retention.SweepInterval)
	return d
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.HTTP.MaxUploadMB) << 20
}

// TranslationTimeout returns the HTTP timeout for translation requests.
func (c *Config) TranslationTimeout() time.Duration {
	return time.Duration(c.Translation.TimeoutSeconds) * time.Second
}

// SpeechTimeout returns the HTTP timeout for speech synthesis requests.
func (c *Config) SpeechTimeout() time.Duration {
	return time.Duration(c.Speech.TimeoutSeconds) * time.Second
}

func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0" {
		return 0, nil
	}
	return time.ParseDuration(value)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML with secrets redacted.
func (c *Config) Encode() ([]byte, error) {
	redacted := *c
	if redacted.Transcription.APIKey != "" {
		redacted.Transcription.APIKey = "********"
	}
	return toml.Marshal(redacted)
}
