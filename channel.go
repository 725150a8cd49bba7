package attrs

import (
	"errors"
	"strings"
	"time"
)

// keyChannel is the single per-key registry entry behind both notification
// models: the ordered delegate callback list, the replay-one latest value,
// and the live stream subscribers.
type keyChannel struct {
	callbacks []callback
	latest    any
	hasLatest bool
	subs      []*Subscription
}

type callback struct {
	fn   func() error
	expr string
	rule CompiledRule
}

func registryKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (o *Observable) channel(key string) *keyChannel {
	return o.channels[registryKey(key)]
}

func (o *Observable) ensureChannel(key string) *keyChannel {
	normalized := registryKey(key)
	if channel, ok := o.channels[normalized]; ok {
		return channel
	}
	channel := &keyChannel{}
	o.channels[normalized] = channel
	return channel
}

// dropIfEmpty removes the registry entry when nothing references it anymore,
// keeping the tracked-key set aligned with live subscriptions.
func (o *Observable) dropIfEmpty(key string) {
	normalized := registryKey(key)
	channel, ok := o.channels[normalized]
	if !ok {
		return
	}
	if len(channel.callbacks) == 0 && len(channel.subs) == 0 && !channel.hasLatest {
		delete(o.channels, normalized)
	}
}

// dispatch runs the notification fan-out for one landed mutation. The store
// already reflects the new state when this is called. Routing:
//
//   - delegate callbacks fire for writes issued through the indexed accessor
//     path (fireCallbacks), never for deletes
//   - the key's stream always sees a write; a nil value is a deletion signal
//     that clears the latest value and is never delivered
//   - global observers fire only for try-operations (fireObservers)
//
// Each subscriber failure is isolated; the aggregate comes back as one joined
// error wrapped with the key and verb.
func (o *Observable) dispatch(verb Verb, key string, old, value any, fireCallbacks, fireObservers bool) error {
	start := time.Now()
	var errs []error

	if fireCallbacks {
		if err := o.fireCallbacks(key, old, value); err != nil {
			errs = append(errs, err)
		}
	}

	if err := o.push(key, value); err != nil {
		errs = append(errs, err)
	}

	if fireObservers {
		if err := o.notifyObservers(key, old, value); err != nil {
			errs = append(errs, err)
		}
	}

	if err := o.emitActivity(verb, key, old, value); err != nil {
		errs = append(errs, err)
	}

	o.appendTrail(verb, key, old, value)

	err := wrapDeliveryError(verb, key, errors.Join(errs...))
	o.changeLogger().LogChange(ChangeLogEvent{
		Verb:     verb,
		Key:      key,
		Duration: time.Since(start),
		Err:      err,
	})
	return err
}

// dispatchRead reports an existing-value hit from a batch get-or-add to the
// global observers, with the same logging and trace bookkeeping as a landed
// mutation. Nothing is written and no stream push happens.
func (o *Observable) dispatchRead(key string, value any) error {
	start := time.Now()
	err := wrapDeliveryError(VerbRead, key, o.notifyObservers(key, value, value))
	o.appendTrail(VerbRead, key, value, value)
	o.changeLogger().LogChange(ChangeLogEvent{
		Verb:     VerbRead,
		Key:      key,
		Duration: time.Since(start),
		Err:      err,
	})
	return err
}

// fireCallbacks invokes the captured delegate list for key in insertion
// order. Conditional callbacks are gated on their compiled expression.
func (o *Observable) fireCallbacks(key string, old, value any) error {
	channel := o.channel(key)
	if channel == nil || len(channel.callbacks) == 0 {
		return nil
	}
	captured := append([]callback(nil), channel.callbacks...)

	var ctx *ChangeContext
	var errs []error
	for _, cb := range captured {
		if cb.rule != nil {
			if ctx == nil {
				built := o.changeContext(key, old, value)
				ctx = &built
			}
			pass, err := evaluateCondition(cb.rule, cb.expr, *ctx)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if !pass {
				continue
			}
		}
		if cb.fn == nil {
			continue
		}
		if err := cb.fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// push records the latest value for key and delivers it to live stream
// subscribers. A nil value clears the replay slot and is filtered.
func (o *Observable) push(key string, value any) error {
	channel := o.channel(key)
	if value == nil {
		if channel != nil {
			channel.latest = nil
			channel.hasLatest = false
			o.dropIfEmpty(key)
		}
		return nil
	}
	if channel == nil {
		channel = o.ensureChannel(key)
	}
	channel.latest = value
	channel.hasLatest = true
	if len(channel.subs) == 0 {
		return nil
	}

	captured := append([]*Subscription(nil), channel.subs...)
	var errs []error
	for _, sub := range captured {
		if err := o.deliver(sub, Change{Key: key, Value: value}, nil); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// notifyObservers fans a (key, value) pair out to the global observer list in
// registration order.
func (o *Observable) notifyObservers(key string, old, value any) error {
	if len(o.observers) == 0 {
		return nil
	}
	captured := append([]*Subscription(nil), o.observers...)
	var errs []error
	for _, sub := range captured {
		if err := o.deliver(sub, Change{Key: key, Value: value}, old); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// deliver pushes one change into a subscription, honoring its condition and
// routing failures to its onError handler when configured.
func (o *Observable) deliver(sub *Subscription, change Change, old any) error {
	if sub == nil || !sub.active || sub.onNext == nil {
		return nil
	}
	if sub.rule != nil {
		pass, err := evaluateCondition(sub.rule, sub.expr, o.changeContext(change.Key, old, change.Value))
		if err != nil {
			return sub.fail(err)
		}
		if !pass {
			return nil
		}
	}
	if err := sub.onNext(change); err != nil {
		return sub.fail(err)
	}
	return nil
}

func (o *Observable) changeContext(key string, old, value any) ChangeContext {
	return ChangeContext{
		Key:        key,
		OldValue:   old,
		NewValue:   value,
		Attributes: o.Attributes(),
	}.withDefaults()
}

// evaluateCondition runs a compiled condition and requires a boolean result.
func evaluateCondition(rule CompiledRule, expr string, ctx ChangeContext) (bool, error) {
	result, err := rule.Evaluate(ctx)
	if err != nil {
		return false, err
	}
	pass, ok := result.(bool)
	if !ok {
		return false, wrapEvaluationError("", expr, ctx.Key, ErrConditionNotBool)
	}
	return pass, nil
}

// compileCondition compiles expr against the configured evaluator, creating
// the default engine on first use.
func (o *Observable) compileCondition(expr string) (CompiledRule, error) {
	evaluator, err := o.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	return evaluator.Compile(expr)
}
