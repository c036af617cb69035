// Package gitrepo contains helpers for interrogating and manipulating a single
// Git working copy.
//
// RepositoryManager runs git through an executor and exposes the operations an
// update needs: repository detection, branch and status queries, stash push and
// pop, fetch, incoming commit listing, and pull.
package gitrepo
