// Package fixer repairs a world whose end generator is broken.
//
// Apply runs seven steps in a fixed order:
//
//  1. re-read level.dat
//  2. copy it to a sibling backup, replacing any earlier backup
//  3. make sure the end dimension has a type and a generator
//  4. swap in a fresh vanilla generator compound
//  5. zip the end's generated data directory beside it, then delete it
//  6. write the zero-byte reset marker
//  7. write the new tree to a temp file and rename it over level.dat
//
// Steps 2 to 6 are safe to repeat, so a failed world can simply be retried.
// Only step 7 changes level.dat, and it does so with a single rename: a
// reader sees either the old file or the new one.
package fixer
