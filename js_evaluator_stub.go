//go:build !js_eval

package attrs

// NewJSEvaluator returns nil in builds without the js_eval tag; callers are
// expected to fall back to another engine.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = applyJSEvaluatorOptions(opts)
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}
