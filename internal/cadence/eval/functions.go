package eval

import (
	"fmt"

	"cadence/internal/cadence/ast"
	"cadence/internal/cadence/env"
	"cadence/internal/cadence/types"
	"cadence/internal/cadence/value"
)

var progressions = types.CommonProgressions{}

// EvalFunctionCall dispatches a call expression: user-defined functions
// first, then the higher-order builtins that need evaluator access
// (map/filter), then the plain Builtins registry, then progression-name
// dispatch, and finally an "unknown function" error. Grounded on
// cadence-core's eval_function_with_env / call_function_by_name split.
func (ev *Evaluator) EvalFunctionCall(call ast.Expression, scope value.Scope, inProgress map[string]bool) (value.Value, error) {
	args := make([]value.Value, len(call.Elements))
	for i, a := range call.Elements {
		v, err := ev.Eval(a, scope, inProgress)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	if fnVal, ok := scope.Lookup(call.Name); ok && fnVal.Kind == value.KindFunction {
		return ev.callUserFunction(fnVal.Function, args, call.Span)
	}

	switch call.Name {
	case "map":
		return ev.callMap(args, call.Span)
	case "filter":
		return ev.callFilter(args, call.Span)
	case "every":
		return ev.callEvery(args, call.Span)
	case "clear":
		ev.Env.Clear()
		return value.Unit(), nil
	}

	if builtin, ok := Builtins[call.Name]; ok {
		return builtin(args)
	}

	if len(args) == 1 && args[0].Kind == value.KindNote && progressions.IsValidProgression(call.Name) {
		p, err := progressions.GetProgression(call.Name, args[0].Note)
		if err != nil {
			return value.Value{}, err
		}
		return value.PatternValue(p), nil
	}

	return value.Value{}, fmt.Errorf("unknown function '%s' at %s", call.Name, call.Span)
}

// callUserFunction runs fn's body against a fresh local environment
// seeded with every binding visible from its closure, plus its
// parameters — copying rather than sharing the closure's bindings, per
// eval_function_with_env, so the call cannot mutate the definition
// site's scope.
func (ev *Evaluator) callUserFunction(fn *value.Function, args []value.Value, span ast.Span) (value.Value, error) {
	if len(args) != len(fn.Params) {
		return value.Value{}, fmt.Errorf("function '%s' expects %d argument(s), got %d at %s", fn.Name, len(fn.Params), len(args), span)
	}

	local := env.New()
	if closureEnv, ok := fn.Closure.(interface{ AllBindings() map[string]value.Value }); ok {
		for name, v := range closureEnv.AllBindings() {
			local.DefineGlobal(name, v)
		}
	}
	local.PushScope()
	for i, param := range fn.Params {
		local.Define(param, args[i])
	}

	err := ev.execStatements(fn.Body, local, map[string]bool{}, true)
	if err == nil {
		return value.Unit(), nil
	}
	if ret, ok := err.(returnSignal); ok {
		return ret.value, nil
	}
	return value.Value{}, err
}

func (ev *Evaluator) callMap(args []value.Value, span ast.Span) (value.Value, error) {
	if len(args) != 2 || args[0].Kind != value.KindArray || args[1].Kind != value.KindFunction {
		return value.Value{}, fmt.Errorf("map(array, fn) expects an array and a function at %s", span)
	}
	out := make([]value.Value, len(args[0].Array))
	for i, item := range args[0].Array {
		v, err := ev.callUserFunction(args[1].Function, []value.Value{item}, span)
		if err != nil {
			return value.Value{}, err
		}
		out[i] = v
	}
	return value.ArrayValue(out), nil
}

// callEvery builds an EveryPattern: every(n, name, pattern) applies the
// named unary pattern transformer to produce the cycle selected every
// n-th repetition, per the every/interval/base/transformed combinator.
func (ev *Evaluator) callEvery(args []value.Value, span ast.Span) (value.Value, error) {
	if len(args) != 3 {
		return value.Value{}, fmt.Errorf("every(n, name, pattern) expects 3 arguments at %s", span)
	}
	n, err := asInt(args[0])
	if err != nil {
		return value.Value{}, fmt.Errorf("every's first argument must be a number at %s: %w", span, err)
	}
	if args[1].Kind != value.KindString {
		return value.Value{}, fmt.Errorf("every's second argument must be a transformer name at %s", span)
	}
	base, ok := args[2].AsPattern()
	if !ok {
		return value.Value{}, fmt.Errorf("every's third argument must be a pattern at %s", span)
	}
	transformer, ok := Builtins[args[1].String]
	if !ok {
		return value.Value{}, fmt.Errorf("unknown pattern transformer '%s' at %s", args[1].String, span)
	}
	transformedVal, err := transformer([]value.Value{args[2]})
	if err != nil {
		return value.Value{}, err
	}
	transformed, ok := transformedVal.AsPattern()
	if !ok {
		return value.Value{}, fmt.Errorf("transformer '%s' did not return a pattern at %s", args[1].String, span)
	}
	return value.EveryPatternValue(types.NewEveryPattern(int(n), base, transformed)), nil
}

func (ev *Evaluator) callFilter(args []value.Value, span ast.Span) (value.Value, error) {
	if len(args) != 2 || args[0].Kind != value.KindArray || args[1].Kind != value.KindFunction {
		return value.Value{}, fmt.Errorf("filter(array, fn) expects an array and a function at %s", span)
	}
	var out []value.Value
	for _, item := range args[0].Array {
		v, err := ev.callUserFunction(args[1].Function, []value.Value{item}, span)
		if err != nil {
			return value.Value{}, err
		}
		if truthy(v) {
			out = append(out, item)
		}
	}
	return value.ArrayValue(out), nil
}
