// Package mymemory translates text through the public MyMemory translation API.
package mymemory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"webtranslator/internal/logging"
	"webtranslator/internal/services"
	"webtranslator/internal/textutil"
)

const (
	defaultBaseURL     = "https://api.mymemory.translated.net"
	defaultHTTPTimeout = 30 * time.Second
	autoSource         = "auto"
	autodetectSource   = "autodetect"
	stageTranslate     = "translate"
	operation          = "mymemory"

	// MyMemory rejects queries longer than 500 bytes.
	maxQueryBytes = 500
)

// Config captures the settings for the MyMemory API.
type Config struct {
	BaseURL        string
	Email          string
	TimeoutSeconds int
}

// Client wraps the MyMemory /get endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a MyMemory client.
func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Email:          strings.TrimSpace(cfg.Email),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger(logger, "mymemory"),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	return client
}

type response struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  flexibleStatus `json:"responseStatus"`
	ResponseDetails string         `json:"responseDetails"`
}

// flexibleStatus accepts responseStatus as either a number or a string;
// MyMemory has returned both.
type flexibleStatus int

func (s *flexibleStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(raw))
	}
	value, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("response status %q: %w", data, err)
	}
	*s = flexibleStatus(value)
	return nil
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("mymemory request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Translate converts text from source to target. An empty target, or a
// target equal to the source, returns text unchanged without a request.
// Source "auto" asks MyMemory to detect the language. Text within the query
// limit is sent as is; longer text is split at sentence and line boundaries
// and the translated pieces are rejoined with the original separators.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	source = strings.ToLower(strings.TrimSpace(source))
	if target == "" || target == source || strings.TrimSpace(text) == "" {
		return text, nil
	}
	if source == "" || source == autoSource {
		source = autodetectSource
	}
	logger := logging.WithContext(ctx, c.logger)
	start := time.Now()

	if len(text) <= maxQueryBytes {
		out, err := c.translateChunk(ctx, text, source, target)
		if err != nil {
			return "", err
		}
		logger.Debug("translation complete",
			logging.String("source", source),
			logging.String("target", target),
			logging.Duration("elapsed", time.Since(start)),
		)
		return out, nil
	}

	lead, pieces := textutil.SplitSentences(text, maxQueryBytes, textutil.ByteCount)
	var b strings.Builder
	b.WriteString(lead)
	for _, piece := range pieces {
		out, err := c.translateChunk(ctx, piece.Text, source, target)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		b.WriteString(piece.Sep)
	}
	logger.Debug("translation complete",
		logging.String("source", source),
		logging.String("target", target),
		logging.Int("chunks", len(pieces)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return b.String(), nil
}

func (c *Client) translateChunk(ctx context.Context, text, source, target string) (string, error) {
	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", source+"|"+target)
	if c.cfg.Email != "" {
		query.Set("de", c.cfg.Email)
	}
	endpoint := c.cfg.BaseURL + "/get?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", services.Wrap(services.ErrTranslation, stageTranslate, operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTranslation, stageTranslate, operation, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", services.Wrap(services.ErrTranslation, stageTranslate, operation, "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrTranslation, stageTranslate, operation, "request failed",
			&httpStatusError{StatusCode: resp.StatusCode, Body: string(body)})
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", services.Wrap(services.ErrTranslation, stageTranslate, operation, "decode response", err)
	}
	if payload.ResponseStatus != http.StatusOK {
		message := strings.TrimSpace(payload.ResponseDetails)
		if message == "" {
			message = fmt.Sprintf("service returned status %d", payload.ResponseStatus)
		}
		return "", services.Wrap(services.ErrTranslation, stageTranslate, operation, message, nil)
	}
	return payload.ResponseData.TranslatedText, nil
}
