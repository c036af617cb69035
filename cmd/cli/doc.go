// Package cli constructs the git-autoupdate command-line interface, wiring the
// Cobra command hierarchy, configuration loader, structured logging, and
// operator interrupt handling around the update command.
package cli
