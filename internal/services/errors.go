package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrPersistence   = errors.New("persistence error")
	ErrTranscription = errors.New("transcription error")
	ErrTranslation   = errors.New("translation error")
	ErrSynthesis     = errors.New("synthesis error")
	ErrNotFound      = errors.New("not found")
	ErrConfiguration = errors.New("configuration error")
	ErrExternalTool  = errors.New("external tool error")
)

// Error is a classified failure. Marker is one of the sentinel errors above
// and Message is safe to return to HTTP clients.
type Error struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	detail := buildDetail(e.Stage, e.Operation, e.Message)
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Marker, detail, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Marker, detail)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Marker}
	}
	return []error{e.Marker, e.Err}
}

// Wrap builds an error that includes stage context while tagging it with the
// provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrExternalTool
	}
	return &Error{
		Marker:    marker,
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Err:       err,
	}
}

// Validation reports a client-caused failure with the given message.
func Validation(message string) error {
	return Wrap(ErrValidation, "", "validate", message, nil)
}

// HTTPStatus maps a classified error to the response status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage renders the client-facing message chain of err, joining the
// messages of nested classified errors with ": ". Unclassified causes
// contribute their Error() text.
func ClientMessage(err error) string {
	if err == nil {
		return ""
	}
	var classified *Error
	if !errors.As(err, &classified) {
		return err.Error()
	}
	parts := make([]string, 0, 2)
	if classified.Message != "" {
		parts = append(parts, classified.Message)
	}
	if classified.Err != nil {
		if inner := ClientMessage(classified.Err); inner != "" {
			parts = append(parts, inner)
		}
	}
	if len(parts) == 0 {
		return classified.Marker.Error()
	}
	return strings.Join(parts, ": ")
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
