package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"webtranslator/internal/logging"
	"webtranslator/internal/services"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		correlate,
		requestLogger(s.logger),
		middleware.Recoverer,
	)
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/generated/{name}", s.handleGenerated)

	r.Route("/api", func(ar chi.Router) {
		if s.cfg.RateLimitPerMinute > 0 {
			ar.Use(httprate.LimitByIP(s.cfg.RateLimitPerMinute, time.Minute))
		}
		ar.Post("/translate_text", s.handleTranslateText)
		ar.Post("/play_text_audio", s.handlePlayTextAudio)
		ar.Post("/translate_audio", s.handleTranslateAudio)
	})
	return r
}

// correlate copies the chi request id into the services context so pipeline
// logs carry the same correlation id as the access log and response header.
func correlate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := middleware.GetReqID(r.Context())
		if id != "" {
			w.Header().Set(middleware.RequestIDHeader, id)
			r = r.WithContext(services.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []logging.Attr{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", status),
				logging.Int("response_bytes", ww.BytesWritten()),
				logging.String("remote", r.RemoteAddr),
				logging.Duration("elapsed", time.Since(start)),
			}
			reqLogger := logging.WithContext(r.Context(), logger)
			switch {
			case status >= http.StatusInternalServerError:
				reqLogger.Warn("request failed", logging.Args(append(attrs,
					logging.String(logging.FieldEventType, "http_server_error"),
					logging.String(logging.FieldErrorHint, "see the pipeline error logged for this correlation id"),
				)...)...)
			default:
				reqLogger.Debug("request served", logging.Args(attrs...)...)
			}
		})
	}
}
