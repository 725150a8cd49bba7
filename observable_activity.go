package attrs

import (
	"context"

	"github.com/goliatone/go-attrs/pkg/activity"
)

// WithActivityHooks attaches activity hooks to the wrapper configuration.
// Hooks are cloned and nil entries dropped to preserve immutability. Every
// successful mutation emits one attribute event to the configured hooks.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *observableConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivitySource sets the identity stamped onto every emitted event.
func WithActivitySource(source activity.Source) Option {
	return func(cfg *observableConfig) {
		cfg.activitySource = source
	}
}

// ActivityHooks returns a cloned slice of activity hooks configured on the
// wrapper. The returned slice can be safely mutated by the caller.
func (o *Observable) ActivityHooks() activity.Hooks {
	if o == nil {
		return nil
	}
	return cloneActivityHooks(o.cfg.activityHooks)
}

// emitActivity builds and fans out the audit event for one landed mutation.
// Values are deep-cloned so hooks can hold onto event metadata safely.
func (o *Observable) emitActivity(verb Verb, key string, old, value any) error {
	hooks := o.cfg.activityHooks
	if !hooks.Enabled() {
		return nil
	}

	input := activity.AttributeEventInput{
		Source:   o.cfg.activitySource,
		Record:   o.LogicalName(),
		Key:      key,
		OldValue: CloneValue(old),
		NewValue: CloneValue(value),
	}

	var event activity.Event
	switch verb {
	case VerbAdded:
		event = activity.BuildAttributeAddedEvent(input)
	case VerbUpdated:
		event = activity.BuildAttributeUpdatedEvent(input)
	case VerbDeleted:
		event = activity.BuildAttributeDeletedEvent(input)
	default:
		return nil
	}

	return hooks.Notify(context.Background(), event)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
