package pipeline

import (
	"io"

	"webtranslator/internal/artifacts"
	"webtranslator/internal/textutil"
)

const defaultUploadExt = ".webm"

// Transcript is the output of a transcription provider. Language is an
// ISO 639-1 code, or empty when the provider did not report one.
type Transcript struct {
	Text     string
	Language string
}

// AudioBlob is a raw uploaded recording.
type AudioBlob struct {
	Filename string
	Content  io.Reader
}

// Ext infers the file extension from the client file name, defaulting to
// .webm (the browser recorder format).
func (b AudioBlob) Ext() string {
	return textutil.FileExtension(b.Filename, defaultUploadExt)
}

// TextRequest asks for a text translation. Language is a selection label
// such as "Hindi".
type TextRequest struct {
	Text     string
	Language string
}

// TextResult carries the translated text.
type TextResult struct {
	TranslatedText string
}

// SpeakRequest asks for text to be spoken in its own language.
type SpeakRequest struct {
	Text string
}

// Speech is a synthesized MP3 artifact.
type Speech struct {
	Artifact artifacts.Artifact
	Text     string
	Language string
}

// SpeechResult is returned by Service.Speak.
type SpeechResult struct {
	Speech   Speech
	AudioURL string
}

// AudioRequest carries an uploaded recording and a target selection label.
type AudioRequest struct {
	Blob     *AudioBlob
	Language string
}

// AudioResult is the combined audio flow outcome. AudioURL is nil when no
// target was selected or synthesis failed. DetectedLanguage is nil when the
// transcriber did not report a language.
type AudioResult struct {
	TranscribedText  string
	TranslatedText   string
	AudioURL         *string
	DetectedLanguage *string
}
