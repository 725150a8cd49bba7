package attrs

import (
	"errors"
	"testing"

	"github.com/goliatone/go-attrs/pkg/activity"
)

func TestMutationsEmitActivityEvents(t *testing.T) {
	capture := &activity.CaptureHook{}
	o := NewNamed("settings",
		WithActivityHooks(activity.Hooks{capture}),
		WithActivitySource(activity.Source{ActorID: "user-1", TenantID: "tenant-1"}),
	)

	if _, err := o.TryGetOrAdd("volume", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := o.TryUpdate("volume", 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := o.TryDelete("volume"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(capture.Events) != 3 {
		t.Fatalf("expected three events, got %d", len(capture.Events))
	}

	wantVerbs := []string{"attribute.added", "attribute.updated", "attribute.deleted"}
	for i, verb := range wantVerbs {
		event := capture.Events[i]
		if event.Verb != verb {
			t.Fatalf("event %d: expected verb %q, got %q", i, verb, event.Verb)
		}
		if event.ObjectType != "attribute" || event.ObjectID != "settings.volume" {
			t.Fatalf("event %d: unexpected object: %+v", i, event)
		}
		if event.ActorID != "user-1" || event.TenantID != "tenant-1" {
			t.Fatalf("event %d: expected source identity, got %+v", i, event)
		}
	}

	updated := capture.Events[1]
	if updated.Metadata["record"] != "settings" || updated.Metadata["key"] != "volume" {
		t.Fatalf("expected record/key metadata, got %v", updated.Metadata)
	}
	if updated.Metadata["old_value"] != 7 || updated.Metadata["new_value"] != 9 {
		t.Fatalf("expected value metadata, got %v", updated.Metadata)
	}
}

func TestIndexedWritesEmitActivityToo(t *testing.T) {
	capture := &activity.CaptureHook{}
	o := NewNamed("settings", WithActivityHooks(activity.Hooks{capture}))

	o.SetValue("volume", 7)
	if len(capture.Events) != 1 || capture.Events[0].Verb != "attribute.added" {
		t.Fatalf("expected one added event, got %v", capture.Events)
	}
}

func TestActivityHookFailureJoinsMutationError(t *testing.T) {
	boom := errors.New("sink unavailable")
	o := NewNamed("settings", WithActivityHooks(activity.Hooks{
		&activity.CaptureHook{Err: boom},
	}))

	_, err := o.TryGetOrAdd("volume", 7)
	if err == nil {
		t.Fatalf("expected hook failure to surface")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom in aggregate, got %v", err)
	}
	if o.Get("volume") != 7 {
		t.Fatalf("write must land despite hook failure")
	}
}

func TestActivityHooksAccessorReturnsClone(t *testing.T) {
	capture := &activity.CaptureHook{}
	o := NewNamed("settings", WithActivityHooks(activity.Hooks{capture, nil}))

	hooks := o.ActivityHooks()
	if len(hooks) != 1 {
		t.Fatalf("nil hooks should be dropped, got %d", len(hooks))
	}
	hooks[0] = nil

	o.SetValue("volume", 7)
	if len(capture.Events) != 1 {
		t.Fatalf("mutating the returned slice must not affect the wrapper")
	}
}

func TestNoActivityWithoutHooks(t *testing.T) {
	o := NewNamed("settings")
	if _, err := o.TryGetOrAdd("volume", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hooks := o.ActivityHooks(); hooks != nil {
		t.Fatalf("expected no hooks configured, got %v", hooks)
	}
}
