package fixer

import (
	"archive/zip"
	"io"
	"io/fs"

	"github.com/arthur-debert/endfix/pkg/filesystem"
	"github.com/arthur-debert/endfix/pkg/types"
)

// ArchiveStats counts what went into an archive
type ArchiveStats struct {
	Files int `json:"files" yaml:"files" toml:"files"`
	Dirs  int `json:"dirs" yaml:"dirs" toml:"dirs"`
}

// ArchiveDir zips everything below src into dst, replacing dst. Entry names
// are slash-separated and relative to src; each subdirectory gets a "name/"
// entry so empty directories survive. src itself has no entry.
func ArchiveDir(fsys types.FS, src, dst string) (ArchiveStats, error) {
	var stats ArchiveStats

	out, err := fsys.Create(dst)
	if err != nil {
		return stats, err
	}

	zw := zip.NewWriter(out)
	walkErr := filesystem.Walk(fsys, src, func(full, rel string, entry fs.DirEntry) error {
		info, err := entryInfo(fsys, full, entry)
		if err != nil {
			return err
		}

		switch {
		case entry.IsDir():
			hdr := &zip.FileHeader{Name: rel + "/", Method: zip.Store, Modified: info.ModTime()}
			if _, err := zw.CreateHeader(hdr); err != nil {
				return err
			}
			stats.Dirs++
		case info.Mode().IsRegular():
			if err := addFile(fsys, zw, full, rel, info); err != nil {
				return err
			}
			stats.Files++
		}
		return nil
	}, nil)

	if walkErr != nil {
		_ = zw.Close()
		_ = out.Close()
		return stats, walkErr
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return stats, err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return stats, err
	}
	return stats, out.Close()
}

// entryInfo describes the entry, following a symlink to its target
func entryInfo(fsys types.FS, full string, entry fs.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		return fsys.Stat(full)
	}
	return entry.Info()
}

func addFile(fsys types.FS, zw *zip.Writer, full, rel string, info fs.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = rel
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	in, err := fsys.Open(full)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	_, err = io.Copy(w, in)
	return err
}
