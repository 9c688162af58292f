// Package types defines the core types and interfaces shared across endfix.
// This includes the FS abstraction every component performs its file work
// through, and the SaveCandidate handed from the scanner to the fixer.
package types
