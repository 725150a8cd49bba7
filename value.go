package attrs

// Get returns the current value for key, or nil when absent. This is the
// lenient accessor; use GetValueStrict to surface type mismatches.
func (o *Observable) Get(key string) any {
	value, _ := o.record.Get(key)
	return value
}

// Contains reports whether key currently exists in the record.
func (o *Observable) Contains(key string) bool {
	return o.record.Contains(key)
}

// Set writes value through the indexed accessor path: tracked delegate
// callbacks fire after the store reflects the write, and the key's replay
// stream receives the value. The returned error aggregates subscriber
// failures; the write itself always lands.
func (o *Observable) Set(key string, value any) error {
	old, existed := o.record.Get(key)
	o.record.Set(key, value)
	verb := VerbAdded
	if existed {
		verb = VerbUpdated
	}
	return o.dispatch(verb, key, old, value, true, false)
}

// SetValue is the fluent form of Set. Delivery failures are reported through
// the configured ChangeLogger rather than returned.
func (o *Observable) SetValue(key string, value any) *Observable {
	_ = o.Set(key, value)
	return o
}

// GetValue returns the value for key as T, or T's zero value when the key is
// absent or holds a different runtime type. Mismatches are silent; this
// mirrors the lenient indexer.
func GetValue[T any](o *Observable, key string) T {
	var zero T
	value, ok := o.record.Get(key)
	if !ok {
		return zero
	}
	typed, ok := value.(T)
	if !ok {
		return zero
	}
	return typed
}

// GetValueStrict returns the value for key as T, failing with ErrTypeMismatch
// when the stored value's runtime type disagrees with T, and ErrKeyNotFound
// when the key is absent. Prefer this accessor when a silent zero value would
// mask a data-integrity bug.
func GetValueStrict[T any](o *Observable, key string) (T, error) {
	var zero T
	value, ok := o.record.Get(key)
	if !ok {
		return zero, wrapAccessError(key, ErrKeyNotFound)
	}
	typed, ok := value.(T)
	if !ok {
		return zero, wrapAccessError(key, ErrTypeMismatch)
	}
	return typed, nil
}
