// Package services defines shared utilities consumed by the pipeline stages
// and the external service adapters.
//
// Key responsibilities:
//   - Context helpers that stamp stage names and correlation identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (validation, persistence, transcription, translation, synthesis) so the
//     HTTP layer can map them to status codes and client messages.
//
// Subpackages hold one adapter per external collaborator: AssemblyAI and
// OpenAI Whisper for transcription, MyMemory for translation, and Google
// Translate TTS for speech synthesis.
package services
