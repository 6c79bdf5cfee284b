// Package config loads, normalizes, and validates mediascope configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIASCOPE_VOSK_MODEL. The Config type centralizes every knob the analyzer
// and CLI need: external tool binaries, the scene threshold set, transcription
// parameters, and the projection field set.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a sorted threshold set, and clear validation errors.
package config
