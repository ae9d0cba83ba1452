// Package language provides language code normalization, the client-facing
// target language selection, and text language detection.
//
// Code conversions (ISO 639-1, ISO 639-2, display names, BCP 47 tags) are
// consolidated here so transcription, translation, and synthesis adapters
// agree on a single representation. Detection is backed by whatlanggo; the
// DetectSourceHint and DetectVoice helpers apply the distinct fallbacks used
// for translation ("auto") and speech ("en").
package language
