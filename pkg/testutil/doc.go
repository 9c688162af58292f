// Package testutil provides utilities for testing endfix components.
//
// Key components:
//   - TestEnvironment: a game directory on an in-memory or temp-dir filesystem
//   - LevelBuilder: declarative level.dat trees, healthy or defective
//   - FaultyFS: a types.FS wrapper that fails chosen operations on chosen paths
//
// Usage guidelines:
//   - Prefer EnvMemoryOnly; use EnvIsolated when the code under test touches
//     the real filesystem (config files, logging, the CLI)
//   - Define fixtures inline with LevelBuilder and FileTree, not as files on disk
package testutil
