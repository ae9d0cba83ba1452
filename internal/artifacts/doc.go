// Package artifacts stores uploaded and generated audio files on local disk
// under collision-free identifiers.
//
// Every write allocates a fresh 32 character hex identifier from a random
// UUID, so concurrent requests never contend for the same file and the write
// path needs no locks. Files are written to a temporary name and renamed into
// place, so the serving route never observes a partial artifact.
//
// Retention is handled by Sweep, which removes artifacts older than a
// configured age while holding a flock on the store directory, and by
// Sweeper, which runs Sweep on a ticker for the lifetime of the server.
package artifacts
