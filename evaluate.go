package attrs

import (
	"fmt"
	"time"
)

// Evaluate executes expr against the record's current attributes using the
// configured evaluator, defaulting to the expr engine.
func (o *Observable) Evaluate(expr string) (Response[any], error) {
	return o.EvaluateWith(ChangeContext{}, expr)
}

// EvaluateWith executes expr using ctx, falling back to the record's current
// attributes when ctx.Attributes is nil.
func (o *Observable) EvaluateWith(ctx ChangeContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := o.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	if ctx.Attributes == nil {
		ctx.Attributes = o.Attributes()
	}
	ctx = ctx.withDefaults()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError("", expr, ctx.Key, evalErr)
	o.changeLogger().LogChange(ChangeLogEvent{
		Verb:     VerbRead,
		Key:      ctx.Key,
		Engine:   engine,
		Expr:     expr,
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response[any]{}, evalErr
	}
	return Response[any]{Value: value}, nil
}

func (o *Observable) resolveEvaluator() (Evaluator, error) {
	evaluator := o.evaluator()
	if evaluator != nil {
		return evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := o.programCache(); cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := o.functionRegistry(); registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	o.withEvaluator(defaultEvaluator)
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*attrs.exprEvaluator":
		return "expr"
	case "*attrs.celEvaluator":
		return "cel"
	case "*attrs.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
