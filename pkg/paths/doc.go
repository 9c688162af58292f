// Package paths provides centralized path handling for endfix.
//
// It handles:
//
//   - Game directory discovery (flag, environment, working directory)
//   - The fixed on-disk names the fixer and the trigger agree on: backup,
//     temporary metadata file, data archive and marker
//   - XDG config location for the user-level configuration file
//
// # Environment Variables
//
//   - ENDFIX_GAME_DIR: game directory to scan when --game-dir is not given
//   - XDG_CONFIG_HOME: base for the user configuration file
//
// All per-world names come from a Layout, built from configuration, so
// the repair pass and the later trigger invocation compute identical paths.
package paths
