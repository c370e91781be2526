package compliance

import "sort"

// StatePack registers the rule functions that apply when Jurisdiction.StateCode
// matches the pack's key.
type StatePack struct {
	StateCode string
	Rules     []RuleFunc
}

// Engine composes the federal, state, and locality layers and runs them in
// sequence against a document, returning a flat, deduplicated, stably
// ordered list of Violations.
type Engine struct {
	statePacks map[string][]RuleFunc
	locality   *LocalityEvaluator
}

func NewEngine() (*Engine, error) {
	loc, err := NewLocalityEvaluator()
	if err != nil {
		return nil, err
	}
	return &Engine{
		statePacks: make(map[string][]RuleFunc),
		locality:   loc,
	}, nil
}

// RegisterState installs the rule functions for a state code, overwriting
// any previously registered pack for that code.
func (e *Engine) RegisterState(stateCode string, rules ...RuleFunc) {
	e.statePacks[stateCode] = rules
}

// RegisterLocalityOverride adds a CEL-gated locality rule. See LocalityOverride.
func (e *Engine) RegisterLocalityOverride(o LocalityOverride) {
	e.locality.Register(o)
}

// Check runs federal, then state, then locality layers against text and
// returns the aggregated violation list. ctx.DocType of DocTypeAuto is
// resolved via DetectDocType before running any layer.
func (e *Engine) Check(text string, ctx Context) ([]Violation, error) {
	if ctx.DocType == "" || ctx.DocType == DocTypeAuto {
		ctx.DocType = DetectDocType(text)
	}

	var all []Violation
	all = append(all, federalLayer(text, ctx)...)

	for _, rule := range e.statePacks[ctx.Jurisdiction.StateCode] {
		all = append(all, rule(text, ctx)...)
	}

	localityViolations, err := e.locality.Run(text, ctx)
	if err != nil {
		return nil, err
	}
	all = append(all, localityViolations...)

	return dedupeAndOrder(all), nil
}

// dedupeAndOrder removes exact (statute, message, text-position) duplicates
// and orders the result by severity (Critical, Warning, Info) then by
// statute for a stable, deterministic response.
func dedupeAndOrder(violations []Violation) []Violation {
	seen := make(map[string]struct{}, len(violations))
	out := make([]Violation, 0, len(violations))
	for _, v := range violations {
		key := v.Statute + "\x00" + v.Message
		if v.TextPosition != nil {
			key += "\x00" + string(rune(v.TextPosition.StartOffset)) + "\x00" + string(rune(v.TextPosition.EndOffset))
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := severityRank(out[i].Severity), severityRank(out[j].Severity)
		if si != sj {
			return si < sj
		}
		return out[i].Statute < out[j].Statute
	})
	return out
}

func severityRank(s Severity) int {
	switch s {
	case Critical:
		return 0
	case Warning:
		return 1
	default:
		return 2
	}
}
