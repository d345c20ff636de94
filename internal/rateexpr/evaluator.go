// Package rateexpr evaluates the arithmetic rate expressions a PRISM
// defining file uses for its `const double <name> = <expr>;`
// declarations, so later constants can reference earlier ones. It
// compiles each expression once via expr-lang and caches the compiled
// program behind a sync.RWMutex for reuse.
package rateexpr

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"imc2ctmdp/internal/domain"
)

// Evaluator compiles and evaluates numeric rate expressions against a
// growing table of previously defined constants.
type Evaluator struct {
	mu            sync.RWMutex
	compiledCache map[string]*vm.Program
	constants     map[string]float64
}

// NewEvaluator creates an Evaluator with an empty constant table.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		compiledCache: make(map[string]*vm.Program),
		constants:     make(map[string]float64),
	}
}

// Define evaluates expression and binds its result to name so later
// expressions can reference it.
func (e *Evaluator) Define(name, expression string) (float64, error) {
	value, err := e.Eval(expression)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	e.constants[name] = value
	e.mu.Unlock()
	return value, nil
}

// Eval evaluates expression against the current constant table.
func (e *Evaluator) Eval(expression string) (float64, error) {
	if expression == "" {
		return 0, domain.NewDomainError(domain.ErrCodeParse, "rate expression cannot be empty", nil)
	}

	program, err := e.getCompiledProgram(expression)
	if err != nil {
		return 0, err
	}

	e.mu.RLock()
	env := make(map[string]any, len(e.constants))
	for k, v := range e.constants {
		env[k] = v
	}
	e.mu.RUnlock()

	result, err := expr.Run(program, env)
	if err != nil {
		return 0, domain.NewDomainError(domain.ErrCodeParse, "failed to evaluate rate expression "+expression, err)
	}

	switch v := result.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, domain.NewDomainError(domain.ErrCodeParse, "rate expression did not evaluate to a number", nil)
	}
}

func (e *Evaluator) getCompiledProgram(expression string) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.compiledCache[expression]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeParse, "failed to compile rate expression "+expression, err)
	}

	e.mu.Lock()
	e.compiledCache[expression] = program
	e.mu.Unlock()
	return program, nil
}
