// Command snapset snapshots concurrently mutated sets.
//
// Usage:
//
//	snapset snapshot [--buffer N] [ELEMENT...]
//	snapset stress [--backend memory|badger] [--duration D] [--metrics-addr ADDR]
//	snapset config show|validate
//	snapset version
//
// Configuration is read from the file given by --config, then from
// SNAPSET_ environment variables (SNAPSET_STRESS_WRITERS=8), then from flags.
package main
