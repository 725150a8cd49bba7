package attrs

import (
	"time"

	"github.com/goliatone/go-attrs/pkg/activity"
)

// Verb identifies the kind of mutation that triggered a notification.
type Verb string

const (
	// VerbAdded marks a write that created a previously absent attribute.
	VerbAdded Verb = "added"
	// VerbUpdated marks a write that replaced an existing attribute value.
	VerbUpdated Verb = "updated"
	// VerbDeleted marks the removal of an attribute.
	VerbDeleted Verb = "deleted"
	// VerbRead marks a batch get-or-add pair that found an existing value.
	VerbRead Verb = "read"
	// VerbInvoked marks a forced re-fire of a tracked key.
	VerbInvoked Verb = "invoked"
)

// Change pairs an attribute key with the value produced by a mutation. A
// deleted attribute is reported with a nil Value.
type Change struct {
	Key   string
	Value any
}

// ChangeContext carries inputs needed when evaluating a condition expression
// against a single attribute change.
type ChangeContext struct {
	Key        string
	OldValue   any
	NewValue   any
	Attributes map[string]any
	Now        *time.Time
	Args       map[string]any
	Metadata   map[string]any
}

func (ctx ChangeContext) withDefaultNow() ChangeContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx ChangeContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx ChangeContext) withDefaultMaps() ChangeContext {
	if ctx.Attributes == nil {
		ctx.Attributes = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx ChangeContext) withDefaults() ChangeContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// Evaluator executes condition expressions against a change context.
type Evaluator interface {
	Evaluate(ctx ChangeContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx ChangeContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

type Option func(*observableConfig)

type observableConfig struct {
	evaluator      Evaluator
	programCache   ProgramCache
	functions      *FunctionRegistry
	logger         ChangeLogger
	activityHooks  activity.Hooks
	activitySource activity.Source
	trace          bool
}

func applyOptions(opts []Option) observableConfig {
	cfg := observableConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEvaluator configures the condition evaluator used by conditional
// subscriptions and ad-hoc Evaluate calls.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *observableConfig) {
		cfg.evaluator = e
	}
}

// WithTrace toggles recording of a mutation provenance trail on the wrapper.
func WithTrace(enabled bool) Option {
	return func(cfg *observableConfig) {
		cfg.trace = enabled
	}
}

func (o *Observable) evaluator() Evaluator {
	return o.cfg.evaluator
}

func (o *Observable) withEvaluator(e Evaluator) {
	o.cfg.evaluator = e
}

func (o *Observable) programCache() ProgramCache {
	return o.cfg.programCache
}

func (o *Observable) functionRegistry() *FunctionRegistry {
	return o.cfg.functions
}

func (o *Observable) changeLogger() ChangeLogger {
	if o.cfg.logger != nil {
		return o.cfg.logger
	}
	return noopChangeLogger{}
}
