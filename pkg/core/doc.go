// Package core runs endfix's two phases.
//
// # Startup pass
//
// Run scans the game directory, repairs every world whose end generator
// carries the broken signature and then decides whether the deferred reset
// needs a listener:
//
//  1. Every world found by the scanner is inspected. Healthy and unreadable
//     worlds are reported and left alone.
//  2. Each defective world is repaired on its own. A failure is logged with
//     the world and the failing step, and the pass moves on.
//  3. The reset trigger is registered on the event bus when at least one
//     world was repaired, or when a world still carries a marker from an
//     earlier run that never reached its end dimension.
//
// Nothing that goes wrong in the pass escapes Run: errors and panics are
// logged and recorded in the Report.
//
// # Deferred reset
//
// Serve plays the host: after the startup pass it reads dimension-load lines,
// publishes them on the bus and writes the corrective command for the
// operator. Activate does the same for a single load.
package core
