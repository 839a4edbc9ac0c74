// Package command defines the snapset CLI using urfave/cli/v2.
//
//   - root.go: application, global flags, configuration and logger setup
//   - snapshot.go: snapshot of elements given on the command line or stdin
//   - stress.go: concurrent mutate-while-snapshot workload
//   - metrics.go: Prometheus endpoint used during stress runs
//   - config.go: configuration inspection
//   - version.go: build information
package command
