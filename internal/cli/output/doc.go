// Package output renders command results for the snapset CLI.
//
//   - formatter.go: Formatter interface, factory and format parsing
//   - table.go: tabular rendering of tables, structs, maps and slices
//   - json.go: indented JSON
//   - yaml.go: YAML via gopkg.in/yaml.v3
//   - progress.go: elapsed-time bar for long-running commands
package output
