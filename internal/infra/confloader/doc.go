// Package confloader loads configuration for Samus.
//
// It uses koanf to merge several sources into one typed struct.
// Priority (highest to lowest):
//
//  1. Overrides (command-line flags)
//  2. Environment variables (SAMUS_ prefix, "__" between levels)
//  3. Configuration file (YAML)
//  4. Default values already present in the target struct
//
// Watcher reports changes to the configuration file so the caller can
// Reload and apply what may change at runtime.
package confloader
