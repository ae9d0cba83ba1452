package language

import (
	"errors"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// ErrUndetermined reports that no language could be identified.
var ErrUndetermined = errors.New("language undetermined")

const (
	// SourceHintFallback is used when detection fails for a translation source.
	SourceHintFallback = "auto"
	// VoiceFallback is used when detection fails for speech synthesis.
	VoiceFallback = "en"
)

// Detector identifies the language of free text using whatlanggo trigram
// models.
type Detector struct {
	minConfidence float64
	options       whatlanggo.Options
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// DefaultMinConfidence is the whatlanggo reliability threshold. Short inputs
// such as greetings score well below it.
const DefaultMinConfidence = whatlanggo.ReliableConfidenceThreshold

// WithMinConfidence rejects results below the given whatlanggo confidence.
func WithMinConfidence(value float64) DetectorOption {
	return func(d *Detector) {
		d.minConfidence = value
	}
}

// WithCandidates restricts detection to the given languages. Codes that the
// detector does not know are ignored.
func WithCandidates(codes ...string) DetectorOption {
	return func(d *Detector) {
		whitelist := make(map[whatlanggo.Lang]bool, len(codes))
		for _, code := range codes {
			iso3 := ToISO3(code)
			if iso3 == "und" {
				continue
			}
			lang := whatlanggo.CodeToLang(iso3)
			if lang.Iso6391() == "" {
				continue
			}
			whitelist[lang] = true
		}
		if len(whitelist) > 0 {
			d.options.Whitelist = whitelist
		}
	}
}

// NewDetector constructs a Detector.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{minConfidence: DefaultMinConfidence}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Detect returns the ISO 639-1 code for text, or ErrUndetermined when text
// holds no letters or the result is below the configured confidence. With the
// default threshold, text too short to classify is undetermined.
func (d *Detector) Detect(text string) (string, error) {
	if !hasLetter(text) {
		return "", ErrUndetermined
	}
	info := whatlanggo.DetectWithOptions(text, d.options)
	code := info.Lang.Iso6391()
	if code == "" {
		return "", ErrUndetermined
	}
	if info.Confidence < d.minConfidence {
		return "", ErrUndetermined
	}
	return code, nil
}

// DetectSourceHint returns the detected language for use as a translation
// source, or "auto" when detection fails.
func (d *Detector) DetectSourceHint(text string) string {
	code, err := d.Detect(text)
	if err != nil {
		return SourceHintFallback
	}
	return code
}

// DetectVoice returns the detected language for use as a synthesis voice,
// or "en" when detection fails.
func (d *Detector) DetectVoice(text string) string {
	code, err := d.Detect(text)
	if err != nil {
		return VoiceFallback
	}
	return code
}

func hasLetter(text string) bool {
	return strings.IndexFunc(text, unicode.IsLetter) >= 0
}
