package attrs

// Scalar try-operations over the wrapped record. Each couples the write to
// the notification fan-out: the store reflects the mutation before any
// subscriber runs, and the returned error only ever reports subscriber
// failures, never a no-op branch.

// TryGetOrAdd returns the existing value untouched when key is present. When
// absent it writes value, notifies, and returns the written value.
func (o *Observable) TryGetOrAdd(key string, value any) (any, error) {
	if existing, ok := o.record.Get(key); ok {
		return existing, nil
	}
	o.record.Set(key, value)
	return value, o.dispatch(VerbAdded, key, nil, value, false, true)
}

// TryUpdate writes value only when key already exists. It reports false on an
// absent key; that is a documented no-op, not an error.
func (o *Observable) TryUpdate(key string, value any) (bool, error) {
	old, ok := o.record.Get(key)
	if !ok {
		return false, nil
	}
	o.record.Set(key, value)
	return true, o.dispatch(VerbUpdated, key, old, value, false, true)
}

// TryAddOrUpdate always writes value. The boolean reports whether the key was
// newly created rather than whether anything changed.
func (o *Observable) TryAddOrUpdate(key string, value any) (bool, error) {
	old, existed := o.record.Get(key)
	o.record.Set(key, value)
	verb := VerbAdded
	if existed {
		verb = VerbUpdated
	}
	return !existed, o.dispatch(verb, key, old, value, false, true)
}

// TryDelete removes key when present and reports whether a removal occurred.
func (o *Observable) TryDelete(key string) (bool, error) {
	_, removed, err := o.TryDeleteValue(key)
	return removed, err
}

// TryDeleteValue removes key when present, returning the removed value. A
// delete reaches global observers as a (key, nil) pair and clears the key's
// replay slot without delivering to stream subscribers.
func (o *Observable) TryDeleteValue(key string) (any, bool, error) {
	old, ok := o.record.Get(key)
	if !ok {
		return nil, false, nil
	}
	o.record.Remove(key)
	return old, true, o.dispatch(VerbDeleted, key, old, nil, false, true)
}
