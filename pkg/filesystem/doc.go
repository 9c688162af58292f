// Package filesystem provides filesystem implementations for endfix.
//
// This package contains implementations of the types.FS interface,
// the standard OS filesystem and an afero-backed one used by tests,
// plus the tree walks the fixer needs for archiving and purging.
package filesystem
