// Package confloader loads layered configuration with koanf.
//
// Sources, lowest to highest priority:
//
//  1. Defaults already present in the target struct
//  2. YAML configuration file
//  3. SNAPSET_* environment variables
//  4. Explicit key/value overrides (command-line flags)
//
// Watcher reports rewrites of the configuration file through fsnotify.
package confloader
