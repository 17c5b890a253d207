// Package output formats samus-cli results.
//
// Formats:
//
//   - raw: response lines exactly as the server sent them (default)
//   - table: aligned columns for multi-request results
//   - json, yaml: machine-readable output for scripting
package output
