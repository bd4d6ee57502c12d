package prediction

import (
	"fmt"
	"sort"
	"strings"
)

// PredicateEvaluator evaluates the leaf predicates a SemanticContext is
// built from. Real evaluation dispatches into generated parser action
// code, which is out of this repository's scope (spec.md §1 non-goals);
// callers (typically a generated parser) supply this.
type PredicateEvaluator interface {
	EvalSemanticPredicate(ruleIndex, predIndex int, outerContext bool) bool
	EvalPrecedencePredicate(precedence int) bool
}

// SemanticContext is a boolean combination of predicates and precedence
// checks (spec.md §3.7 / glossary).
type SemanticContext interface {
	Eval(ev PredicateEvaluator, outerContext bool) bool
	String() string
	equalSem(other SemanticContext) bool
}

// NONE is the trivially-true semantic context: the default for a config
// that carries no predicate.
var NONE SemanticContext = noneContext{}

type noneContext struct{}

func (noneContext) Eval(PredicateEvaluator, bool) bool     { return true }
func (noneContext) String() string                         { return "" }
func (noneContext) equalSem(o SemanticContext) bool {
	_, ok := o.(noneContext)
	return ok
}

// Predicate is a leaf semantic-predicate reference.
type Predicate struct {
	RuleIndex      int
	PredIndex      int
	IsCtxDependent bool
}

func (p *Predicate) Eval(ev PredicateEvaluator, outerContext bool) bool {
	var useOuter bool
	if p.IsCtxDependent {
		useOuter = outerContext
	}
	return ev.EvalSemanticPredicate(p.RuleIndex, p.PredIndex, useOuter)
}

func (p *Predicate) String() string {
	return fmt.Sprintf("{%d:%d}?", p.RuleIndex, p.PredIndex)
}

func (p *Predicate) equalSem(o SemanticContext) bool {
	op, ok := o.(*Predicate)
	return ok && *op == *p
}

// PrecedencePredicate is a leaf precedence-climbing check used by
// left-recursive rules.
type PrecedencePredicate struct {
	Precedence int
}

func (p *PrecedencePredicate) Eval(ev PredicateEvaluator, _ bool) bool {
	return ev.EvalPrecedencePredicate(p.Precedence)
}

func (p *PrecedencePredicate) String() string {
	return fmt.Sprintf("{%d>=prec}?", p.Precedence)
}

func (p *PrecedencePredicate) equalSem(o SemanticContext) bool {
	op, ok := o.(*PrecedencePredicate)
	return ok && op.Precedence == p.Precedence
}

// andContext/orContext hold flattened, deduplicated operand lists.
type andContext struct{ operands []SemanticContext }
type orContext struct{ operands []SemanticContext }

func (a *andContext) Eval(ev PredicateEvaluator, outerContext bool) bool {
	for _, o := range a.operands {
		if !o.Eval(ev, outerContext) {
			return false
		}
	}
	return true
}

func (a *andContext) String() string {
	return join(a.operands, "&&")
}

func (a *andContext) equalSem(o SemanticContext) bool {
	oa, ok := o.(*andContext)
	return ok && sameOperands(a.operands, oa.operands)
}

func (o *orContext) Eval(ev PredicateEvaluator, outerContext bool) bool {
	for _, operand := range o.operands {
		if operand.Eval(ev, outerContext) {
			return true
		}
	}
	return false
}

func (o *orContext) String() string {
	return join(o.operands, "||")
}

func (o *orContext) equalSem(other SemanticContext) bool {
	oo, ok := other.(*orContext)
	return ok && sameOperands(o.operands, oo.operands)
}

func join(operands []SemanticContext, sep string) string {
	var parts []string
	for _, o := range operands {
		parts = append(parts, o.String())
	}
	return strings.Join(parts, sep)
}

func sameOperands(a, b []SemanticContext) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equalSem(b[i]) {
			return false
		}
	}
	return true
}

func sortedCopy(operands []SemanticContext) []SemanticContext {
	out := append([]SemanticContext{}, operands...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func dedup(operands []SemanticContext) []SemanticContext {
	out := make([]SemanticContext, 0, len(operands))
	for _, o := range operands {
		dup := false
		for _, existing := range out {
			if existing.equalSem(o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, o)
		}
	}
	return out
}

// And is the smart constructor for a conjunction: NONE is absorbed,
// nested ANDs are flattened, and duplicate operands are collapsed.
func And(a, b SemanticContext) SemanticContext {
	if a == NONE {
		return b
	}
	if b == NONE {
		return a
	}
	var operands []SemanticContext
	if aa, ok := a.(*andContext); ok {
		operands = append(operands, aa.operands...)
	} else {
		operands = append(operands, a)
	}
	if ba, ok := b.(*andContext); ok {
		operands = append(operands, ba.operands...)
	} else {
		operands = append(operands, b)
	}
	operands = dedup(sortedCopy(operands))
	if len(operands) == 1 {
		return operands[0]
	}
	return &andContext{operands: operands}
}

// Or is the smart constructor for a disjunction, mirroring And.
func Or(a, b SemanticContext) SemanticContext {
	if a == NONE || b == NONE {
		return NONE
	}
	var operands []SemanticContext
	if ao, ok := a.(*orContext); ok {
		operands = append(operands, ao.operands...)
	} else {
		operands = append(operands, a)
	}
	if bo, ok := b.(*orContext); ok {
		operands = append(operands, bo.operands...)
	} else {
		operands = append(operands, b)
	}
	operands = dedup(sortedCopy(operands))
	if len(operands) == 1 {
		return operands[0]
	}
	return &orContext{operands: operands}
}
