// Package simulator implements the adaptive LL(*) prediction engine
// (spec.md §4.6): SLL prediction over a memoized per-decision DFA,
// escalating to full-context LL prediction on conflict.
package simulator

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nihei9/goantlr-atn/atn"
	"github.com/nihei9/goantlr-atn/dfa"
	"github.com/nihei9/goantlr-atn/internal/atnlog"
	"github.com/nihei9/goantlr-atn/mode"
	"github.com/nihei9/goantlr-atn/perr"
	"github.com/nihei9/goantlr-atn/prediction"
	"github.com/nihei9/goantlr-atn/token"
)

// dfaStateInternSize bounds the LRU backing each decision's DFA; a
// decision that would need more distinct states than this evicts its
// coldest ones, trading memory for a higher ATN-simulation rate on
// pathological grammars.
const dfaStateInternSize = 4096

// ParserATNSimulator drives AdaptivePredict for one grammar's ATN,
// shared safely across parser instances (spec.md §5): the ATN is
// immutable, DecisionToDFA/ContextCache are additive-only under their
// own locks.
type ParserATNSimulator struct {
	ATN                *atn.ATN
	DecisionToDFA      []*dfa.DFA
	ContextCache       *prediction.Cache
	PredicateEvaluator prediction.PredicateEvaluator
	ErrorListener      perr.ErrorListener

	// ExactAmbigDetection mirrors LL_EXACT_AMBIG_DETECTION (spec.md
	// §8.3): when true, an ambiguity is only reported once every alt
	// subset in conflict is identical.
	ExactAmbigDetection bool

	sf singleflight.Group
}

// NewParserATNSimulator builds a simulator over a loaded ATN, one DFA
// per decision, and a fresh PredictionContext cache
// (github.com/hashicorp/golang-lru/v2-backed, spec.md §9 "explicitly-
// owned handles passed into the simulator").
func NewParserATNSimulator(a *atn.ATN, contextCacheSize int, predEval prediction.PredicateEvaluator, listener perr.ErrorListener) *ParserATNSimulator {
	decisionToDFA := make([]*dfa.DFA, a.NumberOfDecisions())
	for i := range decisionToDFA {
		decisionToDFA[i] = dfa.New(i, dfaStateInternSize)
	}
	if listener == nil {
		listener = perr.ConsoleErrorListener{}
	}
	return &ParserATNSimulator{
		ATN:                a,
		DecisionToDFA:      decisionToDFA,
		ContextCache:       prediction.NewCache(contextCacheSize, contextCacheSize),
		PredicateEvaluator: predEval,
		ErrorListener:      listener,
	}
}

// AdaptivePredict is spec.md §4.6's entry point: it decides, at decision,
// which alternative to take given input, restoring input's position to
// where it started before returning on every exit path (spec.md §5
// "Ordering").
func (s *ParserATNSimulator) AdaptivePredict(input token.TokenStream, decision int, outerContext *prediction.Context) (int, error) {
	decisionState := s.ATN.DecisionState(decision)
	if decisionState == nil {
		return 0, perr.New(perr.IllegalState, decision, "no decision state registered for decision %d", decision)
	}
	if outerContext == nil {
		outerContext = prediction.Empty
	}

	d := s.DecisionToDFA[decision]
	startIndex := input.Index()
	mark := input.Mark()
	defer input.Release(mark)
	defer input.Seek(startIndex)

	s0 := d.S0()
	if s0 == nil {
		startConfigs, err := s.computeStartState(decisionState, prediction.Empty, false)
		if err != nil {
			return 0, err
		}
		s0 = d.SetS0(dfa.NewState(startConfigs))
	}

	alt, escalate, err := s.execSLL(d, s0, input, decision, startIndex)
	if err != nil {
		return 0, err
	}
	if !escalate {
		return alt, nil
	}

	atnlog.L().Debug("[predict] SLL conflict, escalating to full context", zap.Int("decision", decision), zap.Int("startIndex", startIndex))
	input.Seek(startIndex)

	s0Full := d.S0Full()
	if s0Full == nil {
		startConfigs, err := s.computeStartState(decisionState, outerContext, true)
		if err != nil {
			return 0, err
		}
		s0Full = d.SetS0Full(dfa.NewState(startConfigs))
	}

	return s.execLL(d, s0Full, input, decision, startIndex)
}

func (s *ParserATNSimulator) computeStartState(decisionState *atn.State, ctx *prediction.Context, fullCtx bool) (*prediction.ConfigSet, error) {
	configs := prediction.NewConfigSet(prediction.Lookup, fullCtx)
	closureBusy := map[closureKey]bool{}
	for i, t := range decisionState.Transitions {
		alt := i + 1
		initial := prediction.NewConfig(t.Target, alt, ctx)
		if err := s.closure(initial, configs, closureBusy, fullCtx, s.ContextCache); err != nil {
			return nil, err
		}
	}
	return configs, nil
}

// execSLL walks the SLL DFA one token at a time, computing missing
// edges by ATN simulation as it goes. It returns (0, true, nil) to
// signal the caller must retry in full context.
func (s *ParserATNSimulator) execSLL(d *dfa.DFA, s0 *dfa.DFAState, input token.TokenStream, decision, startIndex int) (int, bool, error) {
	D := s0
	for {
		t := input.LA(1)
		target := D.Edge(dfa.EdgeOffset(t))
		if target == nil {
			var err error
			target, err = s.computeTargetState(d, D, t, decision, startIndex, input.Index(), false)
			if err != nil {
				return 0, false, err
			}
		}

		if target.Configs.Len() == 0 {
			s.reportNoViableAlt(decision, input)
			return 0, false, perr.New(perr.NoViableAlt, decision, "no viable alternative at input index %d", input.Index())
		}
		if target.RequiresFullContext {
			return 0, true, nil
		}
		if target.IsAcceptState {
			alt, err := s.resolveAccept(target, false, decision, input)
			return alt, false, err
		}

		D = target
		input.Consume()
	}
}

// execLL is execSLL's full-context counterpart: it never escalates
// further, and resolves residual ambiguity to the minimum viable alt
// once input is exhausted or a predicate distinguishes it (spec.md
// §4.6's LL pass).
func (s *ParserATNSimulator) execLL(d *dfa.DFA, s0 *dfa.DFAState, input token.TokenStream, decision, startIndex int) (int, error) {
	D := s0
	for {
		t := input.LA(1)
		target := D.Edge(dfa.EdgeOffset(t))
		if target == nil {
			var err error
			target, err = s.computeTargetState(d, D, t, decision, startIndex, input.Index(), true)
			if err != nil {
				return 0, err
			}
		}

		if target.Configs.Len() == 0 {
			s.reportNoViableAlt(decision, input)
			return 0, perr.New(perr.NoViableAlt, decision, "no viable alternative at input index %d (full context)", input.Index())
		}
		if target.IsAcceptState {
			return s.resolveAccept(target, true, decision, input)
		}

		D = target
		input.Consume()
	}
}

func (s *ParserATNSimulator) resolveAccept(state *dfa.DFAState, fullCtx bool, decision int, input token.TokenStream) (int, error) {
	if len(state.Predicates) == 0 {
		return state.Prediction, nil
	}
	if s.PredicateEvaluator == nil {
		return state.Predicates[0].Alt, nil
	}
	for _, pp := range state.Predicates {
		if pp.Pred == prediction.NONE || pp.Pred.Eval(s.PredicateEvaluator, fullCtx) {
			return pp.Alt, nil
		}
	}
	return 0, perr.New(perr.FailedPredicate, decision, "no guard predicate held at input index %d", input.Index())
}

// computeTargetState installs (or, if a racing caller already did, adopts)
// the DFA edge for (from, t), deduped per (decision, from, token, fullCtx)
// via golang.org/x/sync/singleflight so parser instances sharing this DFA
// don't duplicate ATN simulation work (spec.md §5).
func (s *ParserATNSimulator) computeTargetState(d *dfa.DFA, from *dfa.DFAState, t, decision, startIndex, stopIndex int, fullCtx bool) (*dfa.DFAState, error) {
	key := fmt.Sprintf("%d:%d:%d:%v", d.Decision, from.Num, t, fullCtx)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if existing := from.Edge(dfa.EdgeOffset(t)); existing != nil {
			return existing, nil
		}
		return s.buildTargetState(d, from, t, decision, startIndex, stopIndex, fullCtx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*dfa.DFAState), nil
}

func (s *ParserATNSimulator) buildTargetState(d *dfa.DFA, from *dfa.DFAState, t, decision, startIndex, stopIndex int, fullCtx bool) (*dfa.DFAState, error) {
	reach, err := s.computeReachSet(from.Configs, t, fullCtx)
	if err != nil {
		return nil, err
	}
	if reach == nil {
		installed := d.AddState(dfa.NewState(prediction.NewConfigSet(prediction.Ordered, fullCtx)))
		return d.AddEdge(from, t, installed), nil
	}

	candidate := dfa.NewState(reach)
	altsets := reach.GetConflictingAltSubsets()
	uniqueAlt := mode.GetUniqueAlt(altsets)

	report := func(*dfa.DFAState) {}

	switch {
	case uniqueAlt != 0:
		candidate.IsAcceptState = true
		candidate.Prediction = uniqueAlt

	case reach.AllConfigsInRuleStopStates():
		// Every config has exhausted its rule; no amount of further
		// input or context could separate the remaining alts, so resolve
		// now to the minimum viable one (spec.md §4.6, §8.3).
		predictedAlt := mode.GetSingleViableAlt(altsets)
		exact := mode.AllSubsetsEqual(altsets)
		candidate.IsAcceptState = true
		candidate.Prediction = predictedAlt
		if len(altsets) > 0 && mode.HasConflictingAltSet(altsets) {
			reach.SetConflictingAlts(mode.GetAlts(altsets))
			if !s.ExactAmbigDetection || exact {
				report = func(installed *dfa.DFAState) {
					s.ErrorListener.ReportAmbiguity(decision, installed, startIndex, stopIndex, exact, mode.GetAlts(altsets), reach)
				}
			}
		}

	case !fullCtx && mode.HasSLLConflictTerminatingPrediction(altsets, reach):
		candidate.RequiresFullContext = true
		candidate.IsAcceptState = true
		reach.SetConflictingAlts(mode.GetAlts(altsets))
		report = func(installed *dfa.DFAState) {
			s.ErrorListener.ReportAttemptingFullContext(decision, installed, startIndex, stopIndex, mode.GetAlts(altsets), reach)
		}

	case fullCtx && mode.HasConflictingAltSet(altsets):
		predictedAlt := mode.GetSingleViableAlt(altsets)
		exact := mode.AllSubsetsEqual(altsets)
		candidate.IsAcceptState = true
		candidate.Prediction = predictedAlt
		reach.SetConflictingAlts(mode.GetAlts(altsets))
		if !s.ExactAmbigDetection || exact {
			report = func(installed *dfa.DFAState) {
				s.ErrorListener.ReportAmbiguity(decision, installed, startIndex, stopIndex, exact, mode.GetAlts(altsets), reach)
			}
		}
	}

	installed := d.AddState(candidate)
	report(installed)
	return d.AddEdge(from, t, installed), nil
}

func (s *ParserATNSimulator) reportNoViableAlt(decision int, input token.TokenStream) {
	offending := input.LT(1)
	line, col := 0, 0
	if offending != nil {
		line, col = offending.Line(), offending.Column()
	}
	s.ErrorListener.SyntaxError(nil, offending, line, col, "no viable alternative", nil)
}
