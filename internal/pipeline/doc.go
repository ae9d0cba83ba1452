// Package pipeline orchestrates the translator request flows.
//
// Three flows are exposed by Service:
//
//   - TranslateText: validate, resolve the target selection, translate.
//   - Speak: validate, detect the voice language, synthesize an MP3 artifact.
//   - TranslateAudio: persist the upload, normalize it, transcribe, translate,
//     and synthesize the translation.
//
// Each audio stage returns an explicit stageResult. The fixed stagePolicies
// table decides whether a failed stage aborts the request (Required) or is
// logged and replaced by its fallback value (BestEffort). Persistence,
// transcription and translation are required; normalization and synthesis
// are best effort, so a caller always receives the transcript once
// transcription succeeds.
package pipeline
