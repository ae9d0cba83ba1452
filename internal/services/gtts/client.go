// Package gtts synthesizes speech with the Google Translate text-to-speech
// endpoint, the same endpoint the gTTS library uses.
//
// Text is split into chunks of at most 100 runes on word boundaries. Each
// chunk is fetched as an MP3 segment and the segments are written to the
// destination in order; MP3 frames concatenate into a playable stream.
package gtts

import (
	"context"
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
	defaultBaseURL     = "https://translate.google"
	defaultTLD         = "com"
	defaultHTTPTimeout = 30 * time.Second
	defaultLanguage    = "en"
	maxChunkRunes      = 100
	stageSynthesize    = "synthesize"
	operation          = "gtts"
	userAgent          = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Config captures the endpoint settings. The request host is BaseURL
// followed by "." and TLD; an empty TLD uses BaseURL as-is.
type Config struct {
	BaseURL        string
	TLD            string
	TimeoutSeconds int
}

// Client fetches synthesized speech segments.
type Client struct {
	endpoint   string
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

// NewClient constructs a speech client.
func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	tld := strings.Trim(strings.TrimSpace(cfg.TLD), ".")
	if base == "" {
		base = defaultBaseURL
		if tld == "" {
			tld = defaultTLD
		}
	}
	if tld != "" {
		base += "." + tld
	}
	client := &Client{
		endpoint:   base + "/translate_tts",
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger(logger, "gtts"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("tts request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Synthesize writes MP3 audio for text spoken in lang to dst. An empty lang
// speaks English. Nothing is written for chunks after the first failure.
func (c *Client) Synthesize(ctx context.Context, text, lang string, dst io.Writer) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = defaultLanguage
	}
	chunks := textutil.Chunk(text, maxChunkRunes, textutil.RuneCount)
	if len(chunks) == 0 {
		return services.Wrap(services.ErrSynthesis, stageSynthesize, operation, "no text to speak", nil)
	}

	logger := logging.WithContext(ctx, c.logger)
	start := time.Now()
	var written int64
	for idx, chunk := range chunks {
		n, err := c.fetchSegment(ctx, chunk, lang, idx, len(chunks), dst)
		written += n
		if err != nil {
			return err
		}
	}
	logger.Debug("speech synthesized",
		logging.String("language", lang),
		logging.Int("chunks", len(chunks)),
		logging.Int64("audio_bytes", written),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (c *Client) fetchSegment(ctx context.Context, chunk, lang string, idx, total int, dst io.Writer) (int64, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", lang)
	query.Set("q", chunk)
	query.Set("total", strconv.Itoa(total))
	query.Set("idx", strconv.Itoa(idx))
	query.Set("textlen", strconv.Itoa(textutil.RuneCount(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return 0, services.Wrap(services.ErrSynthesis, stageSynthesize, operation, "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "http://translate.google.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, services.Wrap(services.ErrSynthesis, stageSynthesize, operation, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, services.Wrap(services.ErrSynthesis, stageSynthesize, operation, "request failed",
			&httpStatusError{StatusCode: resp.StatusCode, Body: string(body)})
	}
	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return n, services.Wrap(services.ErrSynthesis, stageSynthesize, operation, "write audio", err)
	}
	if n == 0 {
		return 0, services.Wrap(services.ErrSynthesis, stageSynthesize, operation, "empty audio segment", nil)
	}
	return n, nil
}
