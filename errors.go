package attrs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTypeMismatch reports a strict typed read whose stored value has a
	// different runtime type.
	ErrTypeMismatch = errors.New("attrs: value type mismatch")
	// ErrKeyNotFound reports a strict typed read of an absent key.
	ErrKeyNotFound = errors.New("attrs: key not found")
	// ErrConditionNotBool reports a condition expression that evaluated to a
	// non-boolean result.
	ErrConditionNotBool = errors.New("attrs: condition must evaluate to bool")
	// ErrNoEvaluator reports that no condition evaluator could be resolved.
	ErrNoEvaluator = errors.New("attrs: evaluator not configured")
)

// DeliveryError carries the mutation that triggered a notification fan-out
// alongside the aggregated subscriber failures.
type DeliveryError struct {
	Verb Verb
	Key  string
	Err  error
}

func (e *DeliveryError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("attrs: %s %q delivery: %v", e.Verb, e.Key, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapDeliveryError(verb Verb, key string, err error) error {
	if err == nil {
		return nil
	}
	var delivery *DeliveryError
	if errors.As(err, &delivery) && delivery.Key == key {
		return err
	}
	return &DeliveryError{Verb: verb, Key: key, Err: err}
}

func wrapAccessError(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: attribute %q", err, key)
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Key    string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("attrs: %s evaluator %s key=%s: %v", e.Engine, describeExpression(e.Expr), e.Key, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "attrs:") {
		return err
	}
	return fmt.Errorf("attrs: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, key string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Key == "" {
			evalErr.Key = key
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Key:    key,
		Err:    err,
	}
}
