// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
package ffprobe
