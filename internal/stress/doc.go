// Package stress runs a mutate-while-snapshot workload against a set backend.
//
// Writers add and remove ULID-named members while readers repeatedly take
// snapshots with ToSlice and CopyInto. Every snapshot is checked as it is
// taken:
//
//   - a ToSlice result has length equal to capacity
//   - a snapshot never holds the same member twice or the empty member
//   - members loaded before the run, which writers never remove, always appear
//   - a CopyInto result that fits the destination reuses it and is followed
//     by an empty sentinel slot
//   - a CopyInto result that does not fit leaves the destination untouched
//
// Failed checks are counted as violations in the Report.
package stress
