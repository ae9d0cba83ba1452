// Package api serves the translator HTTP surface.
//
// # Routes
//
//	POST /api/translate_text     JSON {text, language}      -> {translated_text}
//	POST /api/play_text_audio    JSON {text}                -> {audio_url}
//	POST /api/translate_audio    multipart audio + language -> AudioResponse
//	GET  /generated/{name}       artifact bytes
//	GET  /healthz                {status: "ok"}
//
// Failures are rendered as {error: message} with the status code derived from
// the error marker (validation 400, not found 404, anything else 500).
//
// # Design Notes
//
// Field names are snake_case and match the browser client exactly. Malformed
// JSON bodies decode as an empty object so the caller receives the usual
// validation message rather than a parse error. Uploads are capped by
// http.MaxBytesReader; an oversized upload returns 413.
package api
