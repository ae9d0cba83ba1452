package api

// TranslateTextRequest is the body of POST /api/translate_text.
type TranslateTextRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// TranslateTextResponse is returned by POST /api/translate_text.
type TranslateTextResponse struct {
	TranslatedText string `json:"translated_text"`
}

// PlayTextAudioRequest is the body of POST /api/play_text_audio.
type PlayTextAudioRequest struct {
	Text string `json:"text"`
}

// PlayTextAudioResponse is returned by POST /api/play_text_audio.
type PlayTextAudioResponse struct {
	AudioURL string `json:"audio_url"`
}

// AudioResponse is returned by POST /api/translate_audio. AudioURL and
// DetectedLanguage serialize as null when absent.
type AudioResponse struct {
	TranscribedText  string  `json:"transcribed_text"`
	TranslatedText   string  `json:"translated_text"`
	AudioURL         *string `json:"audio_url"`
	DetectedLanguage *string `json:"detected_language"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
