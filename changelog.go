package attrs

import (
	"encoding/json"
	"time"
)

// TraceEntry records one landed mutation for provenance.
type TraceEntry struct {
	Key      string    `json:"key"`
	Verb     Verb      `json:"verb"`
	OldValue any       `json:"old_value,omitempty"`
	NewValue any       `json:"new_value,omitempty"`
	At       time.Time `json:"at"`
}

// ChangeTrace captures the ordered mutation history of one wrapper while
// tracing is enabled.
type ChangeTrace struct {
	Record  string       `json:"record,omitempty"`
	Entries []TraceEntry `json:"entries"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t ChangeTrace) ToJSON() ([]byte, error) {
	type alias ChangeTrace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (ChangeTrace, error) {
	type alias ChangeTrace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return ChangeTrace{}, err
	}
	return ChangeTrace(trace), nil
}

// Trace returns the mutation trail recorded so far. Empty unless the wrapper
// was constructed with WithTrace(true).
func (o *Observable) Trace() ChangeTrace {
	return ChangeTrace{
		Record:  o.LogicalName(),
		Entries: append([]TraceEntry(nil), o.trail...),
	}
}

func (o *Observable) appendTrail(verb Verb, key string, old, value any) {
	if !o.cfg.trace {
		return
	}
	o.trail = append(o.trail, TraceEntry{
		Key:      key,
		Verb:     verb,
		OldValue: old,
		NewValue: value,
		At:       time.Now(),
	})
}
