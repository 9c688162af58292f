package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/types"
	"github.com/knadh/koanf/v2"
	"github.com/magiconair/properties"
)

// LevelNameKey is the only server.properties key endfix reads
const LevelNameKey = "level-name"

// propertiesParser is a koanf parser for Java properties files. Keys stay
// flat; "rcon.port" is one key, not a nested map.
type propertiesParser struct{}

// PropertiesParser returns a koanf parser for server.properties
func PropertiesParser() koanf.Parser {
	return &propertiesParser{}
}

func (p *propertiesParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(b)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, props.Len())
	for key, value := range props.Map() {
		out[key] = value
	}
	return out, nil
}

func (p *propertiesParser) Marshal(m map[string]interface{}) ([]byte, error) {
	props := properties.NewProperties()
	for key, value := range m {
		if _, _, err := props.Set(key, fmt.Sprint(value)); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := props.Write(&buf, properties.UTF8); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fsProvider reads a single file through types.FS
type fsProvider struct {
	fs   types.FS
	path string
}

func (f *fsProvider) ReadBytes() ([]byte, error) { return f.fs.ReadFile(f.path) }
func (f *fsProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("fs provider requires a parser")
}

// ReadLevelName returns level-name from a server.properties file, or def
// when the key is absent or blank. A missing or unparsable file is an error
// so the caller can log it and move on.
func ReadLevelName(fsys types.FS, path, def string) (string, error) {
	k := koanf.New(".")
	if err := k.Load(&fsProvider{fs: fsys, path: path}, PropertiesParser()); err != nil {
		return "", errors.Wrapf(err, errors.ErrUnreadableSource, "could not read %s", path)
	}
	name := strings.TrimSpace(k.String(LevelNameKey))
	if name == "" {
		return def, nil
	}
	return name, nil
}
