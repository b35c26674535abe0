package optional

// Optional holds a value that may be absent. Iterators use it to signal the
// end of a stream without a sentinel value.
type Optional[T any] struct {
	present bool
	value   T
}

func (self Optional[T]) IsPresent() bool {
	return self.present
}

// Value returns the held value, or the zero value of T when absent.
func (self Optional[T]) Value() T {
	return self.value
}

// Get returns the held value and whether it was present.
func (self Optional[T]) Get() (T, bool) {
	return self.value, self.present
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}
