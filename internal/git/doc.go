// Package git provides the version-control operations depstack needs.
//
// Read-only queries (branch listing, tips, ancestry) go through go-git.
// Anything that touches the working tree, such as checkout, rebase and stash,
// shells out to the git binary through CommandRunner.
//
// VCS is the seam the engine depends on; MockVCS implements it in memory for tests.
package git
