package attrs

import "github.com/google/uuid"

// Record is the external key/value bag the wrapper mutates. The core never
// assumes more than these five operations; key comparison is whatever the
// implementation defines and is treated as exact-match here.
type Record interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Contains(key string) bool
	Remove(key string) bool
	Keys() []string
}

// Named is implemented by records that carry a logical name.
type Named interface {
	LogicalName() string
}

// MapRecord is a minimal in-memory Record implementation intended for tests,
// examples, and NewNamed. Keys enumerate in insertion order and compare
// exact-match.
type MapRecord struct {
	name   string
	id     uuid.UUID
	keys   []string
	values map[string]any
}

// NewMapRecord constructs an empty record with the given logical name and a
// fresh identifier.
func NewMapRecord(name string) *MapRecord {
	return &MapRecord{
		name:   name,
		id:     uuid.New(),
		values: map[string]any{},
	}
}

// LogicalName returns the record's logical name.
func (r *MapRecord) LogicalName() string {
	return r.name
}

// ID returns the record's identifier.
func (r *MapRecord) ID() uuid.UUID {
	return r.id
}

func (r *MapRecord) Get(key string) (any, bool) {
	value, ok := r.values[key]
	return value, ok
}

func (r *MapRecord) Set(key string, value any) {
	if r.values == nil {
		r.values = map[string]any{}
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *MapRecord) Contains(key string) bool {
	_, ok := r.values[key]
	return ok
}

func (r *MapRecord) Remove(key string) bool {
	if _, ok := r.values[key]; !ok {
		return false
	}
	delete(r.values, key)
	for i, existing := range r.keys {
		if existing == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

func (r *MapRecord) Keys() []string {
	return append([]string(nil), r.keys...)
}
