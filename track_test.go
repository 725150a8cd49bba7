package attrs

import (
	"errors"
	"testing"
)

func TestOnChangeFiresOnTrackedWrite(t *testing.T) {
	o := NewNamed("settings")
	fired := 0
	o.OnChange("volume", func() error {
		fired++
		return nil
	})

	if err := o.Set("volume", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired != 1 {
		t.Fatalf("expected callback to fire once, got %d", fired)
	}

	o.SetValue("volume", 9)
	if fired != 2 {
		t.Fatalf("expected callback to fire on update too, got %d", fired)
	}
}

func TestOnChangeUntrackedKeyIsSilent(t *testing.T) {
	o := NewNamed("settings")
	fired := false
	o.OnChange("volume", func() error {
		fired = true
		return nil
	})

	o.SetValue("brightness", 3)
	if fired {
		t.Fatalf("write to an untracked key must not fire callbacks")
	}
}

func TestOnChangeAppendsToExistingList(t *testing.T) {
	o := NewNamed("settings")
	var order []string
	o.OnChange("volume", func() error {
		order = append(order, "first")
		return nil
	})
	o.OnChange("volume", func() error {
		order = append(order, "second")
		return nil
	})

	o.SetValue("volume", 7)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected both callbacks in registration order, got %v", order)
	}
}

func TestOnChangeKeyIsCaseInsensitive(t *testing.T) {
	o := NewNamed("settings")
	fired := 0
	o.OnChange("Volume", func() error {
		fired++
		return nil
	})

	if !o.Tracked("VOLUME") {
		t.Fatalf("tracked membership should ignore case")
	}

	o.SetValue("volume", 7)
	if fired != 1 {
		t.Fatalf("expected callback under differently-cased key, got %d fires", fired)
	}
}

func TestOnChangeEmptyKeyOrNilCallbackIsNoOp(t *testing.T) {
	o := NewNamed("settings")
	o.OnChange("", func() error { return nil })
	o.OnChange("  ", func() error { return nil })
	o.OnChange("volume", nil)

	if o.Tracked("volume") {
		t.Fatalf("nil callbacks must not mark the key tracked")
	}
	if o.Tracked("") {
		t.Fatalf("empty key must not be tracked")
	}
}

func TestRemoveOnChangeDropsWholeList(t *testing.T) {
	o := NewNamed("settings")
	fired := 0
	o.OnChange("volume", func() error {
		fired++
		return nil
	}, func() error {
		fired++
		return nil
	})

	o.RemoveOnChange("volume")
	if o.Tracked("volume") {
		t.Fatalf("key should be untracked after removal")
	}

	o.SetValue("volume", 7)
	if fired != 0 {
		t.Fatalf("removed callbacks must not fire, got %d", fired)
	}
}

func TestTryOperationsDoNotFireCallbacks(t *testing.T) {
	o := NewNamed("settings")
	fired := 0
	o.OnChange("volume", func() error {
		fired++
		return nil
	})

	if _, err := o.TryGetOrAdd("volume", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := o.TryUpdate("volume", 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := o.TryDelete("volume"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired != 0 {
		t.Fatalf("try-operations must not fire delegate callbacks, got %d", fired)
	}
}

func TestCallbackFailuresAreIsolatedAndAggregated(t *testing.T) {
	o := NewNamed("settings")
	boom := errors.New("boom")
	var order []string
	o.OnChange("volume", func() error {
		order = append(order, "first")
		return boom
	})
	o.OnChange("volume", func() error {
		order = append(order, "second")
		return nil
	})

	err := o.Set("volume", 7)
	if err == nil {
		t.Fatalf("expected aggregated callback error")
	}
	var delivery *DeliveryError
	if !errors.As(err, &delivery) {
		t.Fatalf("expected DeliveryError, got %T", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom in aggregate, got %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("a failing callback must not abort the rest, got %v", order)
	}
	if got := o.Get("volume"); got != 7 {
		t.Fatalf("write must land despite callback failure, got %v", got)
	}
}

func TestInvokeReFiresCurrentValue(t *testing.T) {
	o := NewNamed("settings")
	var seen []any
	o.OnChange("volume", func() error {
		seen = append(seen, o.Get("volume"))
		return nil
	})
	o.SetValue("volume", 7)

	if err := o.Invoke("volume"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 || seen[1] != 7 {
		t.Fatalf("expected forced re-fire with current value, got %v", seen)
	}
}

func TestInvokeUntrackedKeyIsNoOp(t *testing.T) {
	o := NewNamed("settings")
	o.SetValue("volume", 7)
	if err := o.Invoke("volume"); err != nil {
		t.Fatalf("invoking an untracked key should be a silent no-op, got %v", err)
	}
}

func TestInvokeAllCoversOnlyStoredTrackedKeys(t *testing.T) {
	o := NewNamed("settings")
	var fired []string
	o.OnChange("volume", func() error {
		fired = append(fired, "volume")
		return nil
	})
	o.OnChange("ghost", func() error {
		fired = append(fired, "ghost")
		return nil
	})
	o.SetValue("volume", 7)
	o.SetValue("brightness", 3)
	fired = nil

	if err := o.InvokeAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fired) != 1 || fired[0] != "volume" {
		t.Fatalf("expected only stored tracked keys to re-fire, got %v", fired)
	}
}

func TestInvokeAllAggregatesFailures(t *testing.T) {
	o := NewNamed("settings")
	errA := errors.New("volume callback failed")
	errB := errors.New("brightness callback failed")
	o.OnChange("volume", func() error { return errA })
	o.OnChange("brightness", func() error { return errB })
	o.Record().Set("volume", 7)
	o.Record().Set("brightness", 3)

	err := o.InvokeAll()
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both failures in aggregate, got %v", err)
	}
}

func TestOnChangeWhenGatesOnCondition(t *testing.T) {
	o := NewNamed("settings")
	fired := 0
	if err := o.OnChangeWhen("retries", "value > 3", func() error {
		fired++
		return nil
	}); err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	o.SetValue("retries", 1)
	if fired != 0 {
		t.Fatalf("condition below threshold must suppress the callback")
	}
	o.SetValue("retries", 5)
	if fired != 1 {
		t.Fatalf("condition above threshold must fire, got %d", fired)
	}
}

func TestOnChangeWhenRejectsBadExpression(t *testing.T) {
	o := NewNamed("settings")
	err := o.OnChangeWhen("retries", "value >", func() error { return nil })
	if err == nil {
		t.Fatalf("expected compile error for malformed expression")
	}
	if o.Tracked("retries") {
		t.Fatalf("failed registration must not track the key")
	}
}

func TestOnChangeWhenNonBoolConditionSurfacesError(t *testing.T) {
	o := NewNamed("settings")
	if err := o.OnChangeWhen("retries", "value + 1", func() error { return nil }); err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	err := o.Set("retries", 2)
	if err == nil {
		t.Fatalf("expected non-bool condition error on delivery")
	}
	if !errors.Is(err, ErrConditionNotBool) {
		t.Fatalf("expected ErrConditionNotBool, got %v", err)
	}
}
