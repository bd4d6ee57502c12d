package simulator

import (
	"github.com/nihei9/goantlr-atn/atn"
	"github.com/nihei9/goantlr-atn/prediction"
)

// closureKey identifies a config by identity for the closureBusy visited
// set (spec.md §4.6 "closureBusy set keyed by identity of
// (state, alt, context)"). *atn.State and *prediction.Context are both
// interned/pointer-stable, so plain pointer equality is identity.
type closureKey struct {
	state *atn.State
	alt   int
	ctx   *prediction.Context
}

// closure computes the epsilon-closure of config into configs, following
// spec.md §4.6's per-transition-kind rules. closureBusy suppresses
// re-entry on the cycles left-recursive rules introduce in the
// PredictionContext DAG.
func (s *ParserATNSimulator) closure(config *prediction.Config, configs *prediction.ConfigSet, closureBusy map[closureKey]bool, fullCtx bool, cache *prediction.Cache) error {
	key := closureKey{config.State, config.Alt, config.Context}
	if closureBusy[key] {
		return nil
	}
	closureBusy[key] = true

	if config.State.Kind == atn.StateRuleStop {
		return s.closureAtRuleStop(config, configs, closureBusy, fullCtx, cache)
	}

	// A state with at least one consuming transition must itself be kept
	// in the configuration set so computeReachSet can later match input
	// against it; a purely-epsilon state contributes nothing once its
	// successors have been visited.
	if !onlyHasEpsilonTransitions(config.State) {
		if _, err := configs.Add(config, cache); err != nil {
			return err
		}
	}

	for _, t := range config.State.Transitions {
		if !t.IsEpsilon() {
			continue
		}
		if err := s.closureEpsilon(config, t, configs, closureBusy, fullCtx, cache); err != nil {
			return err
		}
	}
	return nil
}

func onlyHasEpsilonTransitions(state *atn.State) bool {
	for _, t := range state.Transitions {
		if !t.IsEpsilon() {
			return false
		}
	}
	return true
}

func (s *ParserATNSimulator) closureAtRuleStop(config *prediction.Config, configs *prediction.ConfigSet, closureBusy map[closureKey]bool, fullCtx bool, cache *prediction.Cache) error {
	if config.Context.IsEmpty() {
		if _, err := configs.Add(config, cache); err != nil {
			return err
		}
		return nil
	}

	for i := 0; i < config.Context.Size(); i++ {
		returnState := config.Context.GetReturnState(i)
		if returnState == prediction.EmptyReturnState {
			if fullCtx {
				if _, err := configs.Add(config.WithContext(prediction.Empty), cache); err != nil {
					return err
				}
			}
			continue
		}
		parent := config.Context.GetParent(i)
		followState := s.ATN.State(returnState)
		if followState == nil {
			continue
		}
		newCfg := config.Clone()
		newCfg.State = followState
		newCfg.Context = parent
		if fullCtx && parent.IsEmpty() {
			newCfg.ReachesIntoOuterContext++
		}
		if err := s.closure(newCfg, configs, closureBusy, fullCtx, cache); err != nil {
			return err
		}
	}
	return nil
}

func (s *ParserATNSimulator) closureEpsilon(config *prediction.Config, t *atn.Transition, configs *prediction.ConfigSet, closureBusy map[closureKey]bool, fullCtx bool, cache *prediction.Cache) error {
	switch t.Kind {
	case atn.TransitionEpsilon:
		newCfg := config.Clone()
		newCfg.State = t.Target
		return s.closure(newCfg, configs, closureBusy, fullCtx, cache)

	case atn.TransitionRule:
		newCtx := cache.GetOrCreateSingleton(config.Context, t.FollowState.Num)
		newCfg := config.Clone()
		newCfg.State = t.Target
		newCfg.Context = newCtx
		return s.closure(newCfg, configs, closureBusy, fullCtx, cache)

	case atn.TransitionPredicate:
		if s.canEvaluatePredicateNow(t, fullCtx) {
			if s.PredicateEvaluator == nil || s.PredicateEvaluator.EvalSemanticPredicate(t.PredRuleIndex, t.PredIndex, fullCtx) {
				newCfg := config.Clone()
				newCfg.State = t.Target
				return s.closure(newCfg, configs, closureBusy, fullCtx, cache)
			}
			return nil
		}
		pred := &prediction.Predicate{RuleIndex: t.PredRuleIndex, PredIndex: t.PredIndex, IsCtxDependent: t.IsCtxDependent}
		newCfg := config.Clone()
		newCfg.State = t.Target
		newCfg.SemanticContext = prediction.And(config.SemanticContext, pred)
		return s.closure(newCfg, configs, closureBusy, fullCtx, cache)

	case atn.TransitionPrecedence:
		if s.PredicateEvaluator != nil {
			if s.PredicateEvaluator.EvalPrecedencePredicate(t.PrecedenceLevel) {
				newCfg := config.Clone()
				newCfg.State = t.Target
				return s.closure(newCfg, configs, closureBusy, fullCtx, cache)
			}
			return nil
		}
		pred := &prediction.PrecedencePredicate{Precedence: t.PrecedenceLevel}
		newCfg := config.Clone()
		newCfg.State = t.Target
		newCfg.SemanticContext = prediction.And(config.SemanticContext, pred)
		return s.closure(newCfg, configs, closureBusy, fullCtx, cache)

	case atn.TransitionAction:
		newCfg := config.Clone()
		newCfg.State = t.Target
		return s.closure(newCfg, configs, closureBusy, fullCtx, cache)

	default:
		return nil
	}
}

// canEvaluatePredicateNow reports whether a predicate transition can be
// resolved during closure rather than carried as a SemanticContext.
// Context-independent predicates are always evaluable; context-dependent
// ones are only evaluable once full context is available.
func (s *ParserATNSimulator) canEvaluatePredicateNow(t *atn.Transition, fullCtx bool) bool {
	if !t.IsCtxDependent {
		return true
	}
	return fullCtx
}
