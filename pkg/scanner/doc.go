// Package scanner finds world saves below a game directory.
//
// Three sources are consulted in order: the level named by server.properties,
// the game directory itself (a flat single-world layout) and every immediate
// subdirectory of the saves folder. A directory reached through more than one
// source is tested once.
package scanner
