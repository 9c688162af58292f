// Package nbt reads and writes the named binary tag trees used for world
// metadata (level.dat).
//
// A tree is a root compound with a name, serialised big-endian and, on
// disk, wrapped in gzip. Compounds keep their entry order and strings keep
// their raw bytes, so Decode followed by Encode reproduces the input
// exactly. That property is what lets the fixer rewrite a single subtree
// while leaving every other field byte-for-byte intact.
//
// The decoder works on a fully buffered input and validates every length
// prefix against the bytes that remain, so garbage input fails fast
// instead of triggering large allocations.
package nbt
