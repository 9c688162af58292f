// Package config handles configuration management for endfix.
//
// Configuration is layered with koanf, lowest priority first:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user config file ($XDG_CONFIG_HOME/endfix/endfix.toml)
//  3. <game-dir>/endfix.toml, or the file named by --config
//  4. ENDFIX_SECTION__KEY environment variables
//  5. command-line overrides
//
// The package also reads the host's server.properties, of which only the
// level-name key is consulted.
package config
