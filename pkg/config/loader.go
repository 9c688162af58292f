package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix marks environment variables that override configuration.
// ENDFIX_FIX__BAD_GENERATOR maps to fix.bad_generator.
const EnvPrefix = "ENDFIX_"

// Options select the layers stacked over the embedded defaults
type Options struct {
	// GameDir is searched for endfix.toml when ConfigFile is empty
	GameDir string

	// ConfigFile, when set, must exist and replaces the game-dir file
	ConfigFile string

	// UserConfigFile overrides the XDG location; "-" disables the layer
	UserConfigFile string

	// Overrides are flat keys such as "game.dir", applied last
	Overrides map[string]interface{}
}

// Default returns the embedded defaults only
func Default() *Config {
	cfg, err := Load(Options{UserConfigFile: "-"})
	if err != nil {
		// The embedded file is part of the binary; failing here is a build defect
		panic(err)
	}
	return cfg
}

// Load builds the effective configuration
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config
	userFile := opts.UserConfigFile
	if userFile == "" {
		userFile = paths.UserConfigFile()
	}
	if userFile != "-" {
		if err := loadOptionalFile(k, userFile); err != nil {
			return nil, err
		}
	}

	// 3. Game dir config or explicit file
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", opts.ConfigFile)
		}
		if err := k.Load(file.Provider(opts.ConfigFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", opts.ConfigFile)
		}
	} else if opts.GameDir != "" {
		if err := loadOptionalFile(k, filepath.Join(opts.GameDir, paths.ConfigFileName)); err != nil {
			return nil, err
		}
	}

	// 4. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 5. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TOML renders the configuration as TOML, as `endfix config` prints it
func (c *Config) TOML() ([]byte, error) {
	out, err := gotoml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return out, nil
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
	}
	return nil
}

// envKey maps ENDFIX_SECTION__KEY to section.key
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == "game_dir" {
		// ENDFIX_GAME_DIR is the documented game directory variable
		return "game.dir"
	}
	return strings.ReplaceAll(key, "__", ".")
}
