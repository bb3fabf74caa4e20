// Package main hosts the cookierisk CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the whole session: extracting cookies
// for a page, inspecting or editing the encoded batch, scoring it against the
// configured endpoint, clearing stored values and serving the same actions
// over a local HTTP API. Configuration resolution, store access and logger
// setup live in commandContext so subcommands stay declarative.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
