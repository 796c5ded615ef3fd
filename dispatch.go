package lockstep

// Dispatch pairs a payload with the sequencing stamp under which it was
// produced. The stamp is immutable once the dispatch enters a queue.
type Dispatch[T any] struct {
	Stamp Stamp
	Value T
}

// NewDispatch creates a dispatch carrying value at stamp.
func NewDispatch[T any](stamp Stamp, value T) Dispatch[T] {
	return Dispatch[T]{Stamp: stamp, Value: value}
}

// StampOf returns the sequencing stamp of a dispatch.
func StampOf[T any](d Dispatch[T]) Stamp {
	return d.Stamp
}

// ValueOf returns the payload of a dispatch.
func ValueOf[T any](d Dispatch[T]) T {
	return d.Value
}
