package filesystem

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/arthur-debert/endfix/pkg/types"
)

// WalkFunc receives the full path of an entry and its slash-separated path
// relative to the walk root.
type WalkFunc func(fullPath, relPath string, entry fs.DirEntry) error

// Walk visits every entry below root in lexical order without following
// symlinks. pre is called for each entry before a directory's children are
// visited, post after them. Either callback may be nil. The root itself is
// not reported.
func Walk(fsys types.FS, root string, pre, post WalkFunc) error {
	return walkDir(fsys, root, "", pre, post)
}

func walkDir(fsys types.FS, dir, rel string, pre, post WalkFunc) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		entryRel := path.Join(rel, entry.Name())

		if pre != nil {
			if err := pre(full, entryRel, entry); err != nil {
				return err
			}
		}

		if entry.IsDir() {
			if err := walkDir(fsys, full, entryRel, pre, post); err != nil {
				return err
			}
		}

		if post != nil {
			if err := post(full, entryRel, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveTree deletes root and everything below it, files before their
// parent directories.
func RemoveTree(fsys types.FS, root string) error {
	err := Walk(fsys, root, nil, func(full, _ string, _ fs.DirEntry) error {
		return fsys.Remove(full)
	})
	if err != nil {
		return err
	}
	return fsys.Remove(root)
}

// Exists reports whether name exists. Errors other than not-exist are
// returned so callers can tell "absent" from "unreadable".
func Exists(fsys types.FS, name string) (bool, error) {
	_, err := fsys.Stat(name)
	if err == nil {
		return true, nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether name exists and is a directory
func IsDir(fsys types.FS, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.IsDir()
}

// IsFile reports whether name exists and is a regular file
func IsFile(fsys types.FS, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.Mode().IsRegular()
}

// RemoveIfExists removes name, treating an already-absent file as success.
// It reports whether something was actually removed.
func RemoveIfExists(fsys types.FS, name string) (bool, error) {
	err := fsys.Remove(name)
	if err == nil {
		return true, nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, err
}

// SyncDir flushes dir's entries so a rename inside it survives a crash.
// Platforms that cannot sync a directory return an error callers may treat
// as advisory.
func SyncDir(fsys types.FS, dir string) error {
	d, err := fsys.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return err
	}
	return d.Close()
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
