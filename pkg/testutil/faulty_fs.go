package testutil

import (
	"errors"
	"io/fs"
	"strings"
	"sync"

	"github.com/arthur-debert/endfix/pkg/types"
)

// ErrInjected is returned by every operation FaultyFS was told to fail
var ErrInjected = errors.New("injected fault")

// Op names a filesystem operation FaultyFS can fail
type Op string

const (
	OpStat      Op = "stat"
	OpReadFile  Op = "readfile"
	OpWriteFile Op = "writefile"
	OpOpen      Op = "open"
	OpCreate    Op = "create"
	OpWrite     Op = "write"
	OpSync      Op = "sync"
	OpMkdirAll  Op = "mkdirall"
	OpReadDir   Op = "readdir"
	OpRemove    Op = "remove"
	OpRename    Op = "rename"
)

type fault struct {
	op     Op
	suffix string
}

// FaultyFS wraps a types.FS and fails selected operations. A fault matches
// when the operation's path (the source path for Rename) ends with the
// registered suffix; an empty suffix matches every path.
type FaultyFS struct {
	types.FS

	mu     sync.Mutex
	faults []fault
	calls  map[Op]int
}

// NewFaultyFS wraps inner
func NewFaultyFS(inner types.FS) *FaultyFS {
	return &FaultyFS{FS: inner, calls: map[Op]int{}}
}

// FailOn registers a fault and returns f for chaining
func (f *FaultyFS) FailOn(op Op, suffix string) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = append(f.faults, fault{op: op, suffix: suffix})
	return f
}

// Reset removes every registered fault
func (f *FaultyFS) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = nil
}

// Calls returns how many times op was invoked, failed or not
func (f *FaultyFS) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FaultyFS) check(op Op, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	for _, ft := range f.faults {
		if ft.op == op && strings.HasSuffix(name, ft.suffix) {
			return &fs.PathError{Op: string(op), Path: name, Err: ErrInjected}
		}
	}
	return nil
}

func (f *FaultyFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultyFS) ReadFile(name string) ([]byte, error) {
	if err := f.check(OpReadFile, name); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(name)
}

func (f *FaultyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check(OpWriteFile, name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FaultyFS) Open(name string) (types.File, error) {
	if err := f.check(OpOpen, name); err != nil {
		return nil, err
	}
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f}, nil
}

func (f *FaultyFS) Create(name string) (types.File, error) {
	if err := f.check(OpCreate, name); err != nil {
		return nil, err
	}
	file, err := f.FS.Create(name)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f}, nil
}

func (f *FaultyFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultyFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, oldpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

// faultyFile fails Write and Sync on opened or created files when the
// owning FaultyFS says so
type faultyFile struct {
	types.File
	fs *FaultyFS
}

func (f *faultyFile) Write(p []byte) (int, error) {
	if err := f.fs.check(OpWrite, f.Name()); err != nil {
		return 0, err
	}
	return f.File.Write(p)
}

func (f *faultyFile) Sync() error {
	if err := f.fs.check(OpSync, f.Name()); err != nil {
		return err
	}
	return f.File.Sync()
}
