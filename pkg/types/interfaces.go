package types

import (
	"io"
	"io/fs"
)

// File is the handle returned by FS.Open and FS.Create.
// Both *os.File and afero.File satisfy it.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Name() string
	Sync() error
}

// FS is the filesystem interface required for endfix operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Open(name string) (File, error)
	Create(name string) (File, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// Rename replaces newpath if it exists. On the OS filesystem this is
	// atomic when both paths live on the same volume.
	Rename(oldpath, newpath string) error

	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}
