// Package constants centralizes defaults shared across the CLI, the API server and
// the persistence layer.
//
// File permissions, persisted key names and the scan stage interval live here so
// cmd/ and internal/ can reference them without introducing import cycles.
package constants
