// Package runtime provides the execution context for depstack commands.
//
// It bundles the collaborators actions need: the version-control backend, the
// declaration store, repository configuration, the logger, the run journal and a
// lazily created GitHub client.
package runtime
