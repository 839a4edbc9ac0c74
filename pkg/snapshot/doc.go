// Package snapshot converts concurrently mutated collections into slices.
//
// A collection exposes a size estimate (Len) and a traversal (Iter). The two
// are separate reads of shared state and may disagree when writers race with
// the conversion. The snapshotter uses Len only as a capacity hint and sizes
// the result by what the traversal actually yielded:
//
//   - Growth during traversal: the working buffer grows, Len is not re-read.
//   - Shrink during traversal: the result is trimmed, no trailing slots.
//   - Size races are never reported as errors.
//
// Two conversion forms are provided:
//
//	s, err := snapshot.ToSlice(c)         // fresh slice, len == cap == count
//	s, err := snapshot.CopyInto(c, buf)   // reuse buf when it is large enough
//
// When buf is longer than the snapshot, buf[count] is set to the zero value of
// the element type as an end marker and buf[:count] is returned. When buf is
// too short, a new slice is returned and buf is left untouched.
//
// Thread Safety:
//
// The snapshotter takes no locks and never mutates the collection. Whatever
// consistency a snapshot has comes from the collection's traversal.
package snapshot
