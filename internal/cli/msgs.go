package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Repair worlds saved with a broken End generator"
	MsgScanShort       = "Report which worlds need fixing"
	MsgFixShort        = "Repair every world that needs it"
	MsgRunShort        = "Repair, then relay dimension loads to the reset trigger"
	MsgActivateShort   = "Deliver one dimension load to the reset trigger"
	MsgConfigShort     = "Print the effective configuration as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Config file (default is <game-dir>/endfix.toml)"
	MsgFlagGameDir = "Game directory to scan (default is $ENDFIX_GAME_DIR or the current directory)"
	MsgFlagFormat  = "Output format: auto, term, text, json, yaml, toml"
	MsgFlagDryRun  = "Report what would be fixed without writing anything"
	MsgFlagWorld   = "World directory (default is the server's own world)"

	MsgVersionFormat = "endfix version %s\n  commit: %s\n  built:  %s\n"

	MsgErrFailedWorlds = "%d world(s) could not be fixed"
	MsgErrPassAborted  = "startup pass aborted: %s"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/scan-long.txt
	msgScanLongRaw string
	MsgScanLong    = strings.TrimSpace(msgScanLongRaw)

	//go:embed msgs/fix-long.txt
	msgFixLongRaw string
	MsgFixLong    = strings.TrimSpace(msgFixLongRaw)

	//go:embed msgs/fix-example.txt
	msgFixExampleRaw string
	MsgFixExample    = strings.TrimRight(msgFixExampleRaw, "\n")

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/activate-long.txt
	msgActivateLongRaw string
	MsgActivateLong    = strings.TrimSpace(msgActivateLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
