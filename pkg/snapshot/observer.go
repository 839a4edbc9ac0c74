package snapshot

// Op names the conversion form that produced an Event.
type Op string

const (
	OpToSlice  Op = "to_slice"
	OpCopyInto Op = "copy_into"
	OpFill     Op = "fill"
)

// Event describes one completed conversion.
type Event struct {
	Op Op
	// Hint is the Len estimate taken before traversal.
	Hint int
	// Count is the number of elements copied.
	Count int
	// Reused is true when the caller's destination held the result.
	Reused bool
}

// Grew reports whether the traversal yielded more elements than the hint.
func (e Event) Grew() bool { return e.Count > e.Hint }

// Shrank reports whether the traversal yielded fewer elements than the hint.
func (e Event) Shrank() bool { return e.Count < e.Hint }

// Observer receives conversion events. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveSnapshot(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// ObserveSnapshot calls f(e).
func (f ObserverFunc) ObserveSnapshot(e Event) { f(e) }
