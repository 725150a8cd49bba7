package attrs

import "github.com/google/uuid"

// Stream is the per-key latest-value-replay handle. Every call to Observe
// with the same key returns a handle to the same underlying slot: one
// remembered latest value plus an ordered list of live subscribers.
type Stream struct {
	key   string
	owner *Observable
}

// Subscription is a disposable handle to one subscriber, either on a per-key
// stream or on the global observer feed.
type Subscription struct {
	id         uuid.UUID
	onNext     func(Change) error
	onError    func(error)
	onComplete func()
	expr       string
	rule       CompiledRule
	active     bool
	detach     func(*Subscription)
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Active reports whether the subscription still receives deliveries.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

// Unsubscribe removes exactly this subscriber. It is idempotent and does not
// affect other subscriptions on the same or different keys.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	if s.detach != nil {
		s.detach(s)
	}
}

// fail routes a delivery error to the subscriber's onError handler when one
// is configured; otherwise the error joins the caller's aggregate.
func (s *Subscription) fail(err error) error {
	if err == nil {
		return nil
	}
	if s.onError != nil {
		s.onError(err)
		return nil
	}
	return err
}

func (s *Subscription) complete() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	if s.onComplete != nil {
		s.onComplete()
	}
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*Subscription)

// SubscribeWithOnError routes delivery failures for this subscriber to fn
// instead of the mutation call's aggregate error.
func SubscribeWithOnError(fn func(error)) SubscribeOption {
	return func(s *Subscription) {
		s.onError = fn
	}
}

// SubscribeWithOnComplete invokes fn when the wrapper is closed.
func SubscribeWithOnComplete(fn func()) SubscribeOption {
	return func(s *Subscription) {
		s.onComplete = fn
	}
}

// SubscribeWhere gates delivery on a condition expression evaluated against
// each change. A condition that fails to compile deactivates the
// subscription: the failure is routed to the subscriber's onError handler
// when configured, otherwise to the wrapper's change logger. An unfiltered
// subscription is never substituted for a broken filter.
func SubscribeWhere(expr string) SubscribeOption {
	return func(s *Subscription) {
		s.expr = expr
	}
}

// Observe returns the latest-value-replay stream for key. The stream is a
// view; the registry entry behind it is created on the first subscribe or
// push, so observing a key that is never used costs nothing. A key can be
// pushed into before anyone observes it; the first subscriber then
// immediately receives that buffered value.
func (o *Observable) Observe(key string) *Stream {
	return &Stream{key: key, owner: o}
}

// Key returns the attribute key this stream replays.
func (s *Stream) Key() string {
	return s.key
}

// Latest returns the stream's remembered value and whether one is buffered.
func (s *Stream) Latest() (any, bool) {
	channel := s.owner.channel(s.key)
	if channel == nil || !channel.hasLatest {
		return nil, false
	}
	return channel.latest, true
}

// Subscribe registers onNext on the stream. The current latest value, when
// present, is delivered immediately; every later push arrives in push order.
// A nil onNext is a silent no-op returning an inactive handle.
func (s *Stream) Subscribe(onNext func(any) error, opts ...SubscribeOption) *Subscription {
	sub := s.owner.newSubscription(func(change Change) error {
		if onNext == nil {
			return nil
		}
		return onNext(change.Value)
	}, opts...)
	if onNext == nil || s.owner.closed {
		sub.complete()
		return sub
	}
	if !sub.active {
		return sub
	}

	channel := s.owner.ensureChannel(s.key)
	sub.detach = func(target *Subscription) {
		channel.subs = removeSubscription(channel.subs, target)
		s.owner.dropIfEmpty(s.key)
	}
	channel.subs = append(channel.subs, sub)

	if channel.hasLatest {
		if err := s.owner.deliver(sub, Change{Key: s.key, Value: channel.latest}, channel.latest); err != nil {
			// Replay failures have no mutation call to aggregate into.
			s.owner.changeLogger().LogChange(ChangeLogEvent{Verb: VerbRead, Key: s.key, Err: err})
		}
	}
	return sub
}

// Subscribe registers a global observer that receives every (key, value)
// pair produced by try-operations, in mutation order.
func (o *Observable) Subscribe(onNext func(Change) error, opts ...SubscribeOption) *Subscription {
	sub := o.newSubscription(onNext, opts...)
	if onNext == nil || o.closed {
		sub.complete()
		return sub
	}
	if !sub.active {
		return sub
	}
	sub.detach = func(target *Subscription) {
		o.observers = removeSubscription(o.observers, target)
	}
	o.observers = append(o.observers, sub)
	return sub
}

func (o *Observable) newSubscription(onNext func(Change) error, opts ...SubscribeOption) *Subscription {
	sub := &Subscription{
		id:     uuid.New(),
		onNext: onNext,
		active: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sub)
		}
	}
	if sub.expr != "" {
		rule, err := o.compileCondition(sub.expr)
		if err != nil {
			if residual := sub.fail(err); residual != nil {
				o.changeLogger().LogChange(ChangeLogEvent{Expr: sub.expr, Err: residual})
			}
			sub.active = false
		} else {
			sub.rule = rule
		}
	}
	return sub
}

func removeSubscription(subs []*Subscription, target *Subscription) []*Subscription {
	for i, sub := range subs {
		if sub == target {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}
