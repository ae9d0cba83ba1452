package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"webtranslator/internal/artifacts"
	"webtranslator/internal/logging"
	"webtranslator/internal/pipeline"
)

const (
	defaultMaxUploadBytes = 50 << 20
	shutdownTimeout       = 10 * time.Second
)

// Pipeline runs the translator flows.
type Pipeline interface {
	TranslateText(ctx context.Context, req pipeline.TextRequest) (pipeline.TextResult, error)
	Speak(ctx context.Context, req pipeline.SpeakRequest) (pipeline.SpeechResult, error)
	TranslateAudio(ctx context.Context, req pipeline.AudioRequest) (pipeline.AudioResult, error)
}

// ArtifactFiles opens stored artifacts by servable name.
type ArtifactFiles interface {
	Open(name string) (*os.File, artifacts.Artifact, error)
}

// Config controls the HTTP listener and request limits.
type Config struct {
	Bind               string
	MaxUploadBytes     int64
	RateLimitPerMinute int
	AllowedOrigins     []string
}

// Server hosts the HTTP API.
type Server struct {
	cfg      Config
	pipeline Pipeline
	files    ArtifactFiles
	logger   *slog.Logger
	handler  http.Handler
	server   *http.Server
}

// NewServer builds the router and http.Server.
func NewServer(cfg Config, svc Pipeline, files ArtifactFiles, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("api: pipeline is required")
	}
	if files == nil {
		return nil, errors.New("api: artifact files are required")
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	cfg.Bind = strings.TrimSpace(cfg.Bind)
	s := &Server{
		cfg:      cfg,
		pipeline: svc,
		files:    files,
		logger:   logging.NewComponentLogger(logger, "api"),
	}
	s.handler = s.routes()
	// Transcription blocks until the provider finishes, so responses have no
	// write deadline; the client connection bounds each request.
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler exposes the router (used by tests and embedding callers).
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()
	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.Int64("max_upload_bytes", s.cfg.MaxUploadBytes),
	)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api shutdown incomplete",
			logging.Error(err),
			logging.String(logging.FieldEventType, "api_shutdown_timeout"),
			logging.String(logging.FieldErrorHint, "in-flight requests were cut off"),
		)
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api serve: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}
