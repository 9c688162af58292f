// Package detector decides whether a world's level.dat carries the broken
// end generator. It only reads; nothing on disk is touched.
package detector
