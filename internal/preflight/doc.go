// Package preflight provides readiness checks for the directories, binaries,
// and upstream services the translator depends on.
//
// The "webtranslator check" command prints every result; "webtranslator
// serve" runs the local checks at startup and refuses to listen when the
// artifact directory is unusable. Network checks are opt-in because the
// public translation and speech endpoints are rate limited.
package preflight
