// Package audio converts uploaded recordings into the canonical transcription
// input: mono, 44.1 kHz, 16-bit PCM WAV.
//
// Normalization is best effort. When ffprobe reports no audio stream, ffmpeg
// is missing, or the conversion fails, the source bytes are copied verbatim
// into a fresh .wav artifact and the result is flagged as a fallback so the
// pipeline can continue.
//
// Primary entry point:
//   - Normalizer.Normalize: never fails; returns a Normalized result
package audio
