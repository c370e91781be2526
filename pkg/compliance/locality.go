package compliance

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// LocalityOverride gates an optional, jurisdiction-specific rule behind a
// CEL expression evaluated against the check's facts. It is the one place
// CEL appears in the compliance engine; federal and state rules stay plain
// Go functions.
type LocalityOverride struct {
	Locality   string
	Gate       string // CEL boolean expression over {text_length, year_built, doc_type, zip}; zip is always bound to ""
	Rule       RuleFunc
}

// LocalityEvaluator compiles and caches the CEL programs behind registered
// overrides, keyed by locality.
type LocalityEvaluator struct {
	env       *cel.Env
	mu        sync.RWMutex
	overrides map[string][]LocalityOverride
	programs  map[string]cel.Program
}

func NewLocalityEvaluator() (*LocalityEvaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("text_length", cel.IntType),
		cel.Variable("year_built", cel.IntType),
		cel.Variable("doc_type", cel.StringType),
		cel.Variable("zip", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("compliance: build CEL env: %w", err)
	}
	return &LocalityEvaluator{
		env:       env,
		overrides: make(map[string][]LocalityOverride),
		programs:  make(map[string]cel.Program),
	}, nil
}

// Register adds an override to the locality's set. The gate expression is
// compiled lazily on first evaluation and cached.
func (le *LocalityEvaluator) Register(o LocalityOverride) {
	le.mu.Lock()
	defer le.mu.Unlock()
	le.overrides[o.Locality] = append(le.overrides[o.Locality], o)
}

// Run evaluates every override registered for ctx.Jurisdiction.Locality and
// returns the combined violations of those whose gate passed.
func (le *LocalityEvaluator) Run(text string, ctx Context) ([]Violation, error) {
	le.mu.RLock()
	overrides := le.overrides[ctx.Jurisdiction.Locality]
	le.mu.RUnlock()
	if len(overrides) == 0 {
		return nil, nil
	}

	yearBuilt := 0
	if ctx.YearBuilt != nil {
		yearBuilt = *ctx.YearBuilt
	}
	activation := map[string]interface{}{
		"text_length": int64(len(text)),
		"year_built":  int64(yearBuilt),
		"doc_type":    string(ctx.DocType),
		"zip":         "",
	}

	var out []Violation
	for _, o := range overrides {
		prog, err := le.program(o.Gate)
		if err != nil {
			return nil, err
		}
		val, _, err := prog.Eval(activation)
		if err != nil {
			return nil, fmt.Errorf("compliance: eval gate %q: %w", o.Gate, err)
		}
		pass, ok := val.Value().(bool)
		if !ok {
			return nil, fmt.Errorf("compliance: gate %q did not evaluate to bool", o.Gate)
		}
		if pass {
			out = append(out, o.Rule(text, ctx)...)
		}
	}
	return out, nil
}

func (le *LocalityEvaluator) program(expr string) (cel.Program, error) {
	le.mu.RLock()
	prog, hit := le.programs[expr]
	le.mu.RUnlock()
	if hit {
		return prog, nil
	}

	le.mu.Lock()
	defer le.mu.Unlock()
	if prog, hit := le.programs[expr]; hit {
		return prog, nil
	}
	ast, issues := le.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compliance: compile gate %q: %w", expr, issues.Err())
	}
	prog, err := le.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("compliance: program gate %q: %w", expr, err)
	}
	le.programs[expr] = prog
	return prog, nil
}
