// Package assemblyai transcribes audio files with the AssemblyAI API.
//
// The SDK uploads the file, submits a transcript job with automatic language
// detection, and polls until the job reaches a terminal status.
package assemblyai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"webtranslator/internal/language"
	"webtranslator/internal/logging"
	"webtranslator/internal/pipeline"
	"webtranslator/internal/services"
)

const (
	stageTranscribe = "transcribe"
	operation       = "assemblyai"
)

// Config captures the credentials for the AssemblyAI API.
type Config struct {
	APIKey  string
	BaseURL string
}

// TranscriptsAPI is the subset of the SDK transcript service used here.
type TranscriptsAPI interface {
	TranscribeFromReader(ctx context.Context, reader io.Reader, params *aai.TranscriptOptionalParams) (aai.Transcript, error)
}

// Client adapts the AssemblyAI SDK to the pipeline transcriber.
type Client struct {
	api    TranscriptsAPI
	logger *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithTranscriptsAPI replaces the SDK transcript service (useful for tests).
func WithTranscriptsAPI(api TranscriptsAPI) Option {
	return func(c *Client) {
		if api != nil {
			c.api = api
		}
	}
}

// New constructs a Client.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{logger: logging.NewComponentLogger(logger, "assemblyai")}
	for _, opt := range opts {
		opt(c)
	}
	if c.api == nil {
		sdkOpts := []aai.ClientOption{aai.WithAPIKey(strings.TrimSpace(cfg.APIKey))}
		if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
			sdkOpts = append(sdkOpts, aai.WithBaseURL(baseURL))
		}
		c.api = aai.NewClientWithOptions(sdkOpts...).Transcripts
	}
	return c
}

// Transcribe uploads the file at path and blocks until AssemblyAI returns a
// completed or failed transcript.
func (c *Client) Transcribe(ctx context.Context, path string) (pipeline.Transcript, error) {
	logger := logging.WithContext(ctx, c.logger)

	f, err := os.Open(path)
	if err != nil {
		return pipeline.Transcript{}, services.Wrap(services.ErrTranscription, stageTranscribe, operation, "open audio", err)
	}
	defer f.Close()

	start := time.Now()
	params := &aai.TranscriptOptionalParams{
		LanguageDetection: aai.Bool(true),
	}
	transcript, err := c.api.TranscribeFromReader(ctx, f, params)
	if err != nil {
		return pipeline.Transcript{}, services.Wrap(services.ErrTranscription, stageTranscribe, operation, "request failed", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		message := strings.TrimSpace(aai.ToString(transcript.Error))
		if message == "" {
			message = "transcript failed without an error message"
		}
		return pipeline.Transcript{}, services.Wrap(services.ErrTranscription, stageTranscribe, operation, message, nil)
	}
	if transcript.Status != aai.TranscriptStatusCompleted {
		return pipeline.Transcript{}, services.Wrap(services.ErrTranscription, stageTranscribe, operation,
			fmt.Sprintf("transcript ended with status %q", transcript.Status), nil)
	}

	result := pipeline.Transcript{
		Text:     aai.ToString(transcript.Text),
		Language: language.ToISO2(string(transcript.LanguageCode)),
	}
	logger.Info("transcription complete",
		logging.String("transcript_id", aai.ToString(transcript.ID)),
		logging.String("language", result.Language),
		logging.Int("characters", len([]rune(result.Text))),
		logging.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}
