package optional

// Optional is a value of type T which may or may not be set. Its zero value is
// an Optional with no value.
type Optional[T any] struct {
	value    T
	hasValue bool
}

// Set stores val into the Optional.
func (o *Optional[T]) Set(val T) {
	o.value = val
	o.hasValue = true
}

// Get returns the stored value. It panics when no value has been set. Use
// HasValue to make sure there is one.
func (o *Optional[T]) Get() T {
	if !o.hasValue {
		panic("getting the value of an empty Optional")
	}

	return o.value
}

// HasValue returns true if a value has been set.
func (o *Optional[T]) HasValue() bool {
	return o.hasValue
}
