package attrs

import "testing"

func TestTraceRecordsMutationTrail(t *testing.T) {
	o := NewNamed("settings", WithTrace(true))

	o.SetValue("volume", 7)
	if _, err := o.TryUpdate("volume", 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := o.TryDelete("volume"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trace := o.Trace()
	if trace.Record != "settings" {
		t.Fatalf("expected record name in trace, got %q", trace.Record)
	}
	if len(trace.Entries) != 3 {
		t.Fatalf("expected three entries, got %d", len(trace.Entries))
	}

	first := trace.Entries[0]
	if first.Verb != VerbAdded || first.Key != "volume" || first.NewValue != 7 {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	second := trace.Entries[1]
	if second.Verb != VerbUpdated || second.OldValue != 7 || second.NewValue != 9 {
		t.Fatalf("unexpected second entry: %+v", second)
	}
	third := trace.Entries[2]
	if third.Verb != VerbDeleted || third.OldValue != 9 || third.NewValue != nil {
		t.Fatalf("unexpected third entry: %+v", third)
	}
	if first.At.IsZero() {
		t.Fatalf("entries should carry timestamps")
	}
}

func TestTraceDisabledByDefault(t *testing.T) {
	o := NewNamed("settings")
	o.SetValue("volume", 7)

	if entries := o.Trace().Entries; len(entries) != 0 {
		t.Fatalf("tracing should be off unless enabled, got %v", entries)
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	o := NewNamed("settings", WithTrace(true))
	o.SetValue("volume", 7)

	payload, err := o.Trace().ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Record != "settings" || len(decoded.Entries) != 1 {
		t.Fatalf("unexpected decoded trace: %+v", decoded)
	}
	if decoded.Entries[0].Key != "volume" || decoded.Entries[0].Verb != VerbAdded {
		t.Fatalf("unexpected decoded entry: %+v", decoded.Entries[0])
	}
}
