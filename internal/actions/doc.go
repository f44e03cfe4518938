// Package actions provides the logic behind each depstack command.
//
// Actions accept a runtime.Context, which carries the VCS, the declaration store,
// configuration and the logger. Every mutating action loads the declarations once,
// validates against a freshly built graph, and saves once; a rejected change never
// reaches the store.
package actions
