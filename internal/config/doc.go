// Package config loads, normalizes, and validates cookierisk configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// COOKIERISK_ENDPOINT. The Config type centralizes every knob the CLI and the
// local API need: where state lives, which cookie store to read, and how the
// scoring endpoint is reached.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
