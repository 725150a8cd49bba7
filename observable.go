// Package attrs wraps a generic key/value record with attribute-level change
// notification: per-key callback lists, per-key latest-value replay streams,
// and a global observer feed over batch mutations. The wrapper is synchronous
// and not safe for concurrent use; callers sharing one wrapper across
// goroutines must provide their own synchronization.
package attrs

// Observable couples one Record with the subscription registries that notify
// on attribute changes. One Observable owns exactly one Record for its
// lifetime; the record is never copied.
type Observable struct {
	record Record

	cfg       observableConfig
	channels  map[string]*keyChannel
	observers []*Subscription
	trail     []TraceEntry
	closed    bool
}

// New constructs an Observable wrapping the provided record.
func New(record Record, opts ...Option) *Observable {
	cfg := applyOptions(opts)
	return &Observable{
		record:   record,
		cfg:      cfg,
		channels: map[string]*keyChannel{},
	}
}

// NewNamed constructs an Observable around a fresh MapRecord with the given
// logical name.
func NewNamed(name string, opts ...Option) *Observable {
	return New(NewMapRecord(name), opts...)
}

// Record returns the wrapped record. The returned value is the live record,
// not a copy; mutating it directly bypasses notification.
func (o *Observable) Record() Record {
	return o.record
}

// LogicalName returns the wrapped record's logical name when it has one.
func (o *Observable) LogicalName() string {
	if named, ok := o.record.(Named); ok {
		return named.LogicalName()
	}
	return ""
}

// Attributes returns a snapshot of every attribute currently in the record.
func (o *Observable) Attributes() map[string]any {
	keys := o.record.Keys()
	out := make(map[string]any, len(keys))
	for _, key := range keys {
		if value, ok := o.record.Get(key); ok {
			out[key] = value
		}
	}
	return out
}

// Len reports the number of attributes in the record.
func (o *Observable) Len() int {
	return len(o.record.Keys())
}

// Close completes every stream subscription and global observer. Further
// subscriptions complete immediately; the record itself stays usable.
func (o *Observable) Close() {
	if o.closed {
		return
	}
	o.closed = true
	for _, sub := range o.observers {
		sub.complete()
	}
	o.observers = nil
	for _, channel := range o.channels {
		for _, sub := range channel.subs {
			sub.complete()
		}
		channel.subs = nil
	}
}
