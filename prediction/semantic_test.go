package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEvaluator struct {
	sem  map[[2]int]bool
	prec map[int]bool
}

func (f *fakeEvaluator) EvalSemanticPredicate(ruleIndex, predIndex int, _ bool) bool {
	return f.sem[[2]int{ruleIndex, predIndex}]
}

func (f *fakeEvaluator) EvalPrecedencePredicate(precedence int) bool {
	return f.prec[precedence]
}

func TestAndOrSmartConstructorsAbsorbNone(t *testing.T) {
	p := &Predicate{RuleIndex: 1, PredIndex: 1}
	assert.Equal(t, SemanticContext(p), And(p, NONE))
	assert.Equal(t, SemanticContext(p), And(NONE, p))
	assert.Equal(t, NONE, Or(p, NONE))
	assert.Equal(t, NONE, Or(NONE, p))
}

func TestAndOrEvaluation(t *testing.T) {
	ev := &fakeEvaluator{
		sem:  map[[2]int]bool{{0, 0}: true, {0, 1}: false},
		prec: map[int]bool{},
	}
	p0 := &Predicate{RuleIndex: 0, PredIndex: 0}
	p1 := &Predicate{RuleIndex: 0, PredIndex: 1}

	and := And(p0, p1)
	assert.False(t, and.Eval(ev, false))

	or := Or(p0, p1)
	assert.True(t, or.Eval(ev, false))
}

func TestAndFlattensAndDedups(t *testing.T) {
	p0 := &Predicate{RuleIndex: 0, PredIndex: 0}
	p1 := &Predicate{RuleIndex: 0, PredIndex: 1}
	p2 := &Predicate{RuleIndex: 0, PredIndex: 2}

	nested := And(And(p0, p1), p2)
	flat, ok := nested.(*andContext)
	if assert.True(t, ok) {
		assert.Len(t, flat.operands, 3)
	}

	dup := And(p0, p0)
	assert.Equal(t, SemanticContext(p0), dup)
}

func TestPrecedencePredicateEval(t *testing.T) {
	ev := &fakeEvaluator{prec: map[int]bool{5: true, 6: false}}
	p := &PrecedencePredicate{Precedence: 5}
	assert.True(t, p.Eval(ev, false))

	p2 := &PrecedencePredicate{Precedence: 6}
	assert.False(t, p2.Eval(ev, false))
}
