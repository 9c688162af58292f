// Package host defines what endfix needs from the game server process and
// provides a small in-process implementation of it.
//
// The contracts are Server (save location, the server thread, the command
// dispatcher) and the dimension-load event carried by EventBus. The
// reference implementation runs tasks on a single Loop goroutine and writes
// commands as lines through LineDispatcher, which is what `endfix run` wires
// together.
package host
