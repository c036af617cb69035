// Package update keeps a git working copy in step with its remote.
//
// Service runs one update cycle: it verifies the repository, resolves the
// current branch, stashes uncommitted changes, fetches, lists incoming commits,
// pulls, and finally pops the stash again. The stash is restored on every exit
// path, including failures and operator interrupts. CommandBuilder exposes the
// cycle as a cobra command that prints marked progress lines.
package update
