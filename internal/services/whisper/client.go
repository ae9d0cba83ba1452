// Package whisper transcribes audio files with an OpenAI compatible
// /audio/transcriptions endpoint.
package whisper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"webtranslator/internal/language"
	"webtranslator/internal/logging"
	"webtranslator/internal/pipeline"
	"webtranslator/internal/services"
)

const (
	stageTranscribe = "transcribe"
	operation       = "whisper"
)

// Config captures the settings for an OpenAI compatible transcription API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client adapts go-openai transcription calls to the pipeline transcriber.
type Client struct {
	api    *openai.Client
	model  string
	logger *slog.Logger
}

// Option customizes the underlying go-openai configuration.
type Option func(*openai.ClientConfig)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *openai.ClientConfig) {
		if client != nil {
			cfg.HTTPClient = client
		}
	}
}

// New constructs a Client.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	clientCfg := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	for _, opt := range opts {
		opt(&clientCfg)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.Whisper1
	}
	return &Client{
		api:    openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logging.NewComponentLogger(logger, "whisper"),
	}
}

// Transcribe sends the file at path for transcription and returns the text
// with the detected language reduced to ISO 639-1.
func (c *Client) Transcribe(ctx context.Context, path string) (pipeline.Transcript, error) {
	logger := logging.WithContext(ctx, c.logger)
	start := time.Now()

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: path,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		message := "request failed"
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
			message = strings.TrimSpace(apiErr.Message)
		}
		return pipeline.Transcript{}, services.Wrap(services.ErrTranscription, stageTranscribe, operation, message, err)
	}

	result := pipeline.Transcript{
		Text:     strings.TrimSpace(resp.Text),
		Language: language.ToISO2(resp.Language),
	}
	logger.Info("transcription complete",
		logging.String("model", c.model),
		logging.String("language", result.Language),
		logging.Float64("audio_seconds", resp.Duration),
		logging.Int("characters", len([]rune(result.Text))),
		logging.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}
