// Package textutil provides text helpers shared by the service adapters.
//
// The primary use cases are:
//   - Splitting long text into size-limited chunks on word boundaries for
//     speech synthesis, or on sentence boundaries with the original
//     separators kept for translation
//   - Deriving safe file extensions and tokens from client-supplied names
package textutil
