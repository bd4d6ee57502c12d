package simulator

import (
	"github.com/nihei9/goantlr-atn/atn"
	"github.com/nihei9/goantlr-atn/dfa"
	"github.com/nihei9/goantlr-atn/perr"
	"github.com/nihei9/goantlr-atn/prediction"
	"github.com/nihei9/goantlr-atn/token"
)

// LexerATNSimulator shares the closure/reach skeleton ParserATNSimulator
// uses (spec.md §2 item 10, "the engines that drive closure, reach...")
// but matches one maximal-munch token per call instead of predicting a
// parser alternative: it runs until no transition can advance, and
// returns whichever accept state was last passed, per ANTLR's
// longest-match-wins lexer semantics.
type LexerATNSimulator struct {
	ATN          *atn.ATN
	ContextCache *prediction.Cache
	ModeToDFA    []*dfa.DFA
}

// NewLexerATNSimulator builds a simulator with one DFA per lexer mode.
func NewLexerATNSimulator(a *atn.ATN, contextCacheSize, numModes int) *LexerATNSimulator {
	modeToDFA := make([]*dfa.DFA, numModes)
	for i := range modeToDFA {
		modeToDFA[i] = dfa.New(i, dfaStateInternSize)
	}
	return &LexerATNSimulator{
		ATN:          a,
		ContextCache: prediction.NewCache(contextCacheSize, contextCacheSize),
		ModeToDFA:    modeToDFA,
	}
}

// matchResult is what an accept state remembers about the best match
// found so far, so the simulator can roll back to it on a later dead end.
type matchResult struct {
	index    int
	tokenType int
	executor *prediction.LexerActionExecutor
}

// Match runs maximal-munch matching against input starting at its
// current position, in the given lexer mode, and returns the matched
// token type plus any lexer actions to execute. Input is left positioned
// just past the match.
func (s *LexerATNSimulator) Match(input token.CharStream, modeIdx, startRuleState int) (int, *prediction.LexerActionExecutor, error) {
	d := s.ModeToDFA[modeIdx]
	startState := s.ATN.State(startRuleState)
	if startState == nil {
		return 0, nil, perr.New(perr.IllegalState, modeIdx, "no lexer start state %d", startRuleState)
	}

	s0 := d.S0()
	if s0 == nil {
		startConfigs, err := s.computeLexerStartState(startState)
		if err != nil {
			return 0, nil, err
		}
		s0 = d.SetS0(buildLexerState(startConfigs))
	}

	startIndex := input.Index()
	D := s0
	var best *matchResult
	if D.IsAcceptState {
		best = &matchResult{index: input.Index(), tokenType: D.Prediction, executor: acceptExecutor(D)}
	}

	for {
		c := input.LA(1)
		if c == token.EOF {
			break
		}
		target := D.Edge(dfa.EdgeOffset(c))
		if target == nil {
			var err error
			target, err = s.computeLexerTargetState(d, D, c)
			if err != nil {
				return 0, nil, err
			}
		}
		if target.Configs.Len() == 0 {
			break
		}
		input.Consume()
		D = target
		if D.IsAcceptState {
			best = &matchResult{index: input.Index(), tokenType: D.Prediction, executor: acceptExecutor(D)}
		}
	}

	if best == nil {
		input.Seek(startIndex)
		return 0, nil, perr.New(perr.NoViableAlt, modeIdx, "no viable token at input index %d", startIndex)
	}
	input.Seek(best.index)
	return best.tokenType, best.executor, nil
}

func acceptExecutor(s *dfa.DFAState) *prediction.LexerActionExecutor {
	for _, c := range s.Configs.Configs() {
		if c.LexerExecutor != nil {
			return c.LexerExecutor
		}
	}
	return nil
}

func (s *LexerATNSimulator) computeLexerStartState(startState *atn.State) (*prediction.ConfigSet, error) {
	configs := prediction.NewConfigSet(prediction.Lookup, false)
	closureBusy := map[closureKey]bool{}
	initial := prediction.NewConfig(startState, 1, prediction.Empty)
	if err := s.lexerClosure(initial, configs, closureBusy); err != nil {
		return nil, err
	}
	return configs, nil
}

func (s *LexerATNSimulator) computeLexerTargetState(d *dfa.DFA, from *dfa.DFAState, c int) (*dfa.DFAState, error) {
	reach := prediction.NewConfigSet(prediction.Lookup, false)
	closureBusy := map[closureKey]bool{}
	for _, cfg := range from.Configs.Configs() {
		for _, tr := range cfg.State.Transitions {
			if tr.IsEpsilon() {
				continue
			}
			if !tr.Matches(c, 0, s.ATN.MaxTokenType) {
				continue
			}
			newCfg := cfg.Clone()
			newCfg.State = tr.Target
			if err := s.lexerClosure(newCfg, reach, closureBusy); err != nil {
				return nil, err
			}
		}
	}

	if reach.Len() == 0 {
		installed := d.AddState(dfa.NewState(prediction.NewConfigSet(prediction.Ordered, false)))
		return d.AddEdge(from, c, installed), nil
	}

	installed := d.AddState(buildLexerState(reach))
	return d.AddEdge(from, c, installed), nil
}

// buildLexerState wraps configs as a candidate DFAState, marking it
// accepting if any config sits at a rule-stop state.
func buildLexerState(configs *prediction.ConfigSet) *dfa.DFAState {
	candidate := dfa.NewState(configs)
	if accepting, cfg := firstRuleStopConfig(configs); accepting {
		candidate.IsAcceptState = true
		// A generated lexer supplies its own rule-index-to-token-type
		// table; absent one, rule index plus one serves as token type (spec.md
		// §1 leaves lexer scaffolding out of scope beyond this skeleton).
		candidate.Prediction = cfg.State.RuleIndex + 1
	}
	return candidate
}

func firstRuleStopConfig(configs *prediction.ConfigSet) (bool, *prediction.Config) {
	for _, c := range configs.Configs() {
		if c.State.Kind == atn.StateRuleStop {
			return true, c
		}
	}
	return false, nil
}

// lexerClosure mirrors ParserATNSimulator.closure in simplified form: it
// follows every epsilon transition. A rule transition pushes its follow
// state onto the context, but a rule-stop state is kept as an accepting
// config and never popped. Predicate and precedence transitions are
// followed as if they held; no predicate is evaluated.
func (s *LexerATNSimulator) lexerClosure(config *prediction.Config, configs *prediction.ConfigSet, closureBusy map[closureKey]bool) error {
	key := closureKey{config.State, config.Alt, config.Context}
	if closureBusy[key] {
		return nil
	}
	closureBusy[key] = true

	if config.State.Kind == atn.StateRuleStop {
		if _, err := configs.Add(config, s.ContextCache); err != nil {
			return err
		}
		return nil
	}

	if !onlyHasEpsilonTransitions(config.State) {
		if _, err := configs.Add(config, s.ContextCache); err != nil {
			return err
		}
	}

	for _, t := range config.State.Transitions {
		if !t.IsEpsilon() {
			continue
		}
		newCfg := config.Clone()
		newCfg.State = t.Target
		if t.Kind == atn.TransitionRule {
			newCfg.Context = s.ContextCache.GetOrCreateSingleton(config.Context, t.FollowState.Num)
		}
		if err := s.lexerClosure(newCfg, configs, closureBusy); err != nil {
			return err
		}
	}
	return nil
}
