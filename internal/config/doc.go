// Package config loads, normalizes, and validates webtranslator configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a .env file, and honours environment
// fallbacks such as ASSEMBLYAI_API_KEY and PORT. The Config type centralizes
// every knob the server and CLI need so that the HTTP surface, artifact store,
// and external service adapters are configured in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
