// Command modstudio edits scene documents through scripted, undoable
// commands.
//
// Usage:
//
//	modstudio run scene.lua       Execute a script and print the result
//	modstudio repl                Evaluate Lua lines from stdin
//	modstudio config              Print the effective configuration
//	modstudio version             Print version information
package main

func main() {
	execute()
}
