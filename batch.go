package attrs

import "errors"

// Batch operators apply a scalar primitive once per key/value pair in input
// order, notifying the global observer list after each qualifying outcome.
// When parallel slices disagree in length only the overlapping prefix is
// processed; extra entries are silently ignored.

// TryGetOrAddMany applies get-or-add per pair. Unlike the scalar form, every
// processed pair notifies the global observers: added pairs with the written
// value, existing pairs with the value already in the store.
func (o *Observable) TryGetOrAddMany(keys []string, values []any) ([]any, error) {
	n := overlap(len(keys), len(values))
	out := make([]any, 0, n)
	var errs []error
	for i := 0; i < n; i++ {
		existing, ok := o.record.Get(keys[i])
		if ok {
			out = append(out, existing)
			if err := o.dispatchRead(keys[i], existing); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		o.record.Set(keys[i], values[i])
		out = append(out, values[i])
		if err := o.dispatch(VerbAdded, keys[i], nil, values[i], false, true); err != nil {
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}

// TryGetOrAddManyFn is TryGetOrAddMany with values generated per key.
func (o *Observable) TryGetOrAddManyFn(keys []string, fn func(key string) any) ([]any, error) {
	if fn == nil {
		return nil, nil
	}
	return o.TryGetOrAddMany(keys, generate(keys, fn))
}

// TryUpdateMany applies update per pair; absent keys stay untouched and
// produce no notification.
func (o *Observable) TryUpdateMany(keys []string, values []any) ([]bool, error) {
	n := overlap(len(keys), len(values))
	out := make([]bool, 0, n)
	var errs []error
	for i := 0; i < n; i++ {
		updated, err := o.TryUpdate(keys[i], values[i])
		out = append(out, updated)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}

// TryUpdateManyFn is TryUpdateMany with values generated per key.
func (o *Observable) TryUpdateManyFn(keys []string, fn func(key string) any) ([]bool, error) {
	if fn == nil {
		return nil, nil
	}
	return o.TryUpdateMany(keys, generate(keys, fn))
}

// TryAddOrUpdateMany applies add-or-update per pair. Each returned boolean
// reports the "added" branch of the corresponding pair.
func (o *Observable) TryAddOrUpdateMany(keys []string, values []any) ([]bool, error) {
	n := overlap(len(keys), len(values))
	out := make([]bool, 0, n)
	var errs []error
	for i := 0; i < n; i++ {
		added, err := o.TryAddOrUpdate(keys[i], values[i])
		out = append(out, added)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}

// TryAddOrUpdateManyFn is TryAddOrUpdateMany with values generated per key.
func (o *Observable) TryAddOrUpdateManyFn(keys []string, fn func(key string) any) ([]bool, error) {
	if fn == nil {
		return nil, nil
	}
	return o.TryAddOrUpdateMany(keys, generate(keys, fn))
}

// TryDeleteMany applies delete per key. Every successful removal notifies the
// global observers with a (key, nil) pair.
func (o *Observable) TryDeleteMany(keys []string) ([]bool, error) {
	out := make([]bool, 0, len(keys))
	var errs []error
	for _, key := range keys {
		removed, err := o.TryDelete(key)
		out = append(out, removed)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}

func overlap(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func generate(keys []string, fn func(key string) any) []any {
	values := make([]any, len(keys))
	for i, key := range keys {
		values[i] = fn(key)
	}
	return values
}
