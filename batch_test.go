package attrs

import (
	"errors"
	"testing"
)

func TestTryGetOrAddManyMixedOutcomes(t *testing.T) {
	o := NewNamed("inventory")
	o.Record().Set("Apples", 10)
	collector := &changeCollector{}
	o.Subscribe(collector.collect)

	out, err := o.TryGetOrAddMany(
		[]string{"Apples", "Oranges"},
		[]any{99, 5},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0] != 10 || out[1] != 5 {
		t.Fatalf("expected [10 5], got %v", out)
	}

	want := []Change{
		{Key: "Apples", Value: 10},
		{Key: "Oranges", Value: 5},
	}
	if len(collector.changes) != len(want) {
		t.Fatalf("batch get-or-add must notify every pair, got %v", collector.changes)
	}
	for i, change := range want {
		if collector.changes[i] != change {
			t.Fatalf("change %d: expected %+v, got %+v", i, change, collector.changes[i])
		}
	}
}

func TestBatchGetOrAddLogsExistingPairReads(t *testing.T) {
	var events []ChangeLogEvent
	o := NewNamed("inventory",
		WithTrace(true),
		WithChangeLogger(ChangeLoggerFunc(func(event ChangeLogEvent) {
			events = append(events, event)
		})),
	)
	o.Record().Set("Apples", 10)

	if _, err := o.TryGetOrAddMany([]string{"Apples", "Oranges"}, []any{99, 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected one log event per processed pair, got %d", len(events))
	}
	if events[0].Verb != VerbRead || events[0].Key != "Apples" {
		t.Fatalf("existing pair should log a read, got %+v", events[0])
	}
	if events[1].Verb != VerbAdded || events[1].Key != "Oranges" {
		t.Fatalf("absent pair should log an add, got %+v", events[1])
	}

	entries := o.Trace().Entries
	if len(entries) != 2 {
		t.Fatalf("expected trace entries for both pairs, got %d", len(entries))
	}
	if entries[0].Verb != VerbRead || entries[0].OldValue != 10 || entries[0].NewValue != 10 {
		t.Fatalf("unexpected read entry: %+v", entries[0])
	}
}

func TestBatchProcessesShorterPrefixOnLengthMismatch(t *testing.T) {
	o := NewNamed("inventory")

	out, err := o.TryAddOrUpdateMany(
		[]string{"a", "b", "c"},
		[]any{1, 2},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected only the overlapping prefix processed, got %v", out)
	}
	if o.Contains("c") {
		t.Fatalf("extra key beyond the overlap must be ignored")
	}

	values, err := o.TryGetOrAddMany([]string{"d"}, []any{4, 5, 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 1 || values[0] != 4 {
		t.Fatalf("extra values beyond the overlap must be ignored, got %v", values)
	}
}

func TestTryUpdateManySkipsAbsentKeys(t *testing.T) {
	o := NewNamed("inventory")
	o.Record().Set("a", 1)
	collector := &changeCollector{}
	o.Subscribe(collector.collect)

	out, err := o.TryUpdateMany([]string{"a", "missing"}, []any{10, 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || !out[0] || out[1] {
		t.Fatalf("expected [true false], got %v", out)
	}
	if len(collector.changes) != 1 || collector.changes[0] != (Change{Key: "a", Value: 10}) {
		t.Fatalf("only the landed update should notify, got %v", collector.changes)
	}
	if o.Contains("missing") {
		t.Fatalf("no-op update must not create the key")
	}
}

func TestTryAddOrUpdateManyReportsAddedPerPair(t *testing.T) {
	o := NewNamed("inventory")
	o.Record().Set("a", 1)

	out, err := o.TryAddOrUpdateMany([]string{"a", "b"}, []any{10, 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0] || !out[1] {
		t.Fatalf("expected [false true], got %v", out)
	}
}

func TestTryDeleteManyNotifiesNilPerRemoval(t *testing.T) {
	o := NewNamed("inventory")
	o.Record().Set("a", 1)
	collector := &changeCollector{}
	o.Subscribe(collector.collect)

	out, err := o.TryDeleteMany([]string{"a", "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || !out[0] || out[1] {
		t.Fatalf("expected [true false], got %v", out)
	}
	if len(collector.changes) != 1 || collector.changes[0] != (Change{Key: "a", Value: nil}) {
		t.Fatalf("expected a single (a, nil) notification, got %v", collector.changes)
	}
}

func TestBatchFnVariantsGeneratePerKey(t *testing.T) {
	o := NewNamed("inventory")

	out, err := o.TryGetOrAddManyFn([]string{"a", "b"}, func(key string) any {
		return key + "!"
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0] != "a!" || out[1] != "b!" {
		t.Fatalf("expected generated values, got %v", out)
	}

	if got, err := o.TryUpdateManyFn([]string{"a"}, nil); got != nil || err != nil {
		t.Fatalf("nil generator should be a no-op, got (%v, %v)", got, err)
	}
	if got, err := o.TryAddOrUpdateManyFn([]string{"a"}, nil); got != nil || err != nil {
		t.Fatalf("nil generator should be a no-op, got (%v, %v)", got, err)
	}
}

func TestBatchContinuesPastFailingObserver(t *testing.T) {
	o := NewNamed("inventory")
	boom := errors.New("boom")
	collector := &changeCollector{}
	o.Subscribe(func(change Change) error {
		if change.Key == "a" {
			return boom
		}
		return nil
	})
	o.Subscribe(collector.collect)

	out, err := o.TryAddOrUpdateMany([]string{"a", "b"}, []any{1, 2})
	if err == nil {
		t.Fatalf("expected aggregated failure")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom in aggregate, got %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("a failing pair must not abort the batch, got %v", out)
	}
	if len(collector.changes) != 2 {
		t.Fatalf("remaining pairs should still notify, got %v", collector.changes)
	}
}
