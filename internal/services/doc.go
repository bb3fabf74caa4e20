// Package services defines shared utilities consumed by the pipeline and its
// external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp predict run IDs and batch item positions for
//     logging.
//   - Structured error markers plus the Wrap helper so extraction, input, and
//     per-item scoring failures can be told apart with errors.Is.
//
// Use these helpers when wiring new components so error reporting and
// observability stay uniform across the pipeline.
package services
