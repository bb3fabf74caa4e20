// Package api serves the local HTTP API and defines its wire-format types.
//
// The routes mirror the actions of a browser popup: read the session state,
// extract cookies for a page, fetch or edit the pending batch, predict, clear
// and save the scoring endpoint. Everything goes through a single
// pipeline.Orchestrator.
//
// # Key Types
//
// SessionState: phase, pending count, status text, endpoint and outcomes.
//
// Outcome: one scored cookie, or its error message.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript consumers. Phases are exposed as
// lowercase strings. Timestamps use RFC3339 with milliseconds. Errors are
// always {"error": "..."}; the HTTP status separates bad input (400) from
// extraction failures (422).
//
// Only one server may run per state directory; Start takes a flock on
// config.LockPath before listening.
package api
