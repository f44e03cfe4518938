// Package config manages depstack configuration and state persistence.
//
// It handles:
//   - The data directory under the repository's git dir
//   - Repository configuration (config.toml)
//   - .env loading
//   - Continuation state for operations halted on a rebase conflict
package config
