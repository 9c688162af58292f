package types

import "path/filepath"

// SaveCandidate is a world directory whose metadata file was judged defective.
// It only lives for the duration of one startup pass.
type SaveCandidate struct {
	WorldDir     string `json:"world_dir" yaml:"world_dir" toml:"world_dir"`
	MetadataFile string `json:"metadata_file" yaml:"metadata_file" toml:"metadata_file"`
}

// NewSaveCandidate builds a candidate for worldDir using the given metadata file name
func NewSaveCandidate(worldDir, levelFile string) SaveCandidate {
	return SaveCandidate{
		WorldDir:     worldDir,
		MetadataFile: filepath.Join(worldDir, levelFile),
	}
}

// Name returns the world's directory name, used in logs and reports
func (c SaveCandidate) Name() string {
	return filepath.Base(c.WorldDir)
}
