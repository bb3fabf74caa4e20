// Package state persists the saved scoring endpoint and the most recent
// extraction in a SQLite database under paths.state_dir.
//
// The store replaces values wholesale: every extraction overwrites the
// previous list and clearing removes it. The saved endpoint survives a clear.
package state
