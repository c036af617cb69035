// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and converts non-zero
// exit codes into CommandFailedError values that keep the captured output.
// OSCommandRunner is the os/exec backed runner used outside of tests, and
// CommandMessageFormatter renders the git invocations made during an update
// as readable sentences.
package execshell
