package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"webtranslator/internal/pipeline"
	"webtranslator/internal/services"
)

const (
	maxJSONBodyBytes = 1 << 20
	// Multipart parts above this size spill to temporary files.
	multipartMemory = 8 << 20
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleTranslateText(w http.ResponseWriter, r *http.Request) {
	var req TranslateTextRequest
	decodeLenient(w, r, &req)
	res, err := s.pipeline.TranslateText(r.Context(), pipeline.TextRequest{Text: req.Text, Language: req.Language})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, TranslateTextResponse{TranslatedText: res.TranslatedText})
}

func (s *Server) handlePlayTextAudio(w http.ResponseWriter, r *http.Request) {
	var req PlayTextAudioRequest
	decodeLenient(w, r, &req)
	res, err := s.pipeline.Speak(r.Context(), pipeline.SpeakRequest{Text: req.Text})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PlayTextAudioResponse{AudioURL: res.AudioURL})
}

func (s *Server) handleTranslateAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "Audio upload too large")
			return
		}
		// Anything else (not multipart, truncated body) means there is no
		// usable audio part; the pipeline reports the validation error.
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	req := pipeline.AudioRequest{Language: r.FormValue("language")}
	file, header, err := r.FormFile("audio")
	if err == nil {
		defer file.Close()
		req.Blob = &pipeline.AudioBlob{Filename: header.Filename, Content: file}
	}

	res, err := s.pipeline.TranslateAudio(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, AudioResponse{
		TranscribedText:  res.TranscribedText,
		TranslatedText:   res.TranslatedText,
		AudioURL:         res.AudioURL,
		DetectedLanguage: res.DetectedLanguage,
	})
}

func (s *Server) handleGenerated(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, artifact, err := s.files.Open(name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	defer f.Close()
	if ct := contentType(artifact.Ext); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, artifact.Name(), artifact.ModTime, f)
}

var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
}

// contentType resolves audio types from a fixed table before consulting the
// host mime database.
func contentType(ext string) string {
	if ct, ok := audioContentTypes[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}

// decodeLenient decodes a JSON body into dst, leaving dst zero-valued when
// the body is missing or malformed.
func decodeLenient(w http.ResponseWriter, r *http.Request, dst any) {
	if r.Body == nil {
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return
	}
	_ = json.Unmarshal(data, dst)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	s.writeError(w, services.HTTPStatus(err), services.ClientMessage(err))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
