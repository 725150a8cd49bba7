package attrs

import "errors"

// Delegate-list notifier. Tracked-key membership is case-insensitive; a key
// is tracked exactly while it has at least one registered callback.

// OnChange registers callbacks under key, appended after any callbacks
// already registered for that key. An empty key or an empty callback set is a
// silent no-op.
func (o *Observable) OnChange(key string, fns ...func() error) {
	o.onChange(key, "", nil, fns...)
}

// OnChangeWhen registers callbacks that only fire when expr evaluates to true
// against the change that triggered delivery. Compile failures surface on the
// first delivery attempt, not at registration.
func (o *Observable) OnChangeWhen(key, expr string, fns ...func() error) error {
	if registryKey(key) == "" || len(fns) == 0 {
		return nil
	}
	rule, err := o.compileCondition(expr)
	if err != nil {
		return err
	}
	o.onChange(key, expr, rule, fns...)
	return nil
}

func (o *Observable) onChange(key, expr string, rule CompiledRule, fns ...func() error) {
	if registryKey(key) == "" {
		return
	}
	registered := make([]callback, 0, len(fns))
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		registered = append(registered, callback{fn: fn, expr: expr, rule: rule})
	}
	if len(registered) == 0 {
		return
	}
	channel := o.ensureChannel(key)
	channel.callbacks = append(channel.callbacks, registered...)
}

// RemoveOnChange drops the entire callback list for key. Subsequent writes to
// key fire nothing. Granularity is single-key; individual callbacks cannot be
// removed.
func (o *Observable) RemoveOnChange(key string) {
	channel := o.channel(key)
	if channel == nil {
		return
	}
	channel.callbacks = nil
	o.dropIfEmpty(key)
}

// Tracked reports whether key currently has at least one delegate callback.
func (o *Observable) Tracked(key string) bool {
	channel := o.channel(key)
	return channel != nil && len(channel.callbacks) > 0
}

// InvokeAll force-fires the callback list of every tracked key present in
// the store, independent of whether a value changed. Failures are isolated
// per callback and aggregated.
func (o *Observable) InvokeAll() error {
	var errs []error
	for _, key := range o.record.Keys() {
		if !o.Tracked(key) {
			continue
		}
		if err := o.Invoke(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Invoke force-fires the callback list of one key, if tracked. The current
// stored value stands in for both sides of the change context.
func (o *Observable) Invoke(key string) error {
	if !o.Tracked(key) {
		return nil
	}
	current, _ := o.record.Get(key)
	err := o.fireCallbacks(key, current, current)
	return wrapDeliveryError(VerbInvoked, key, err)
}
