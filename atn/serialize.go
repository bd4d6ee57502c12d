package atn

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nihei9/goantlr-atn/interval"
)

// SerializedATNUUID identifies this package's wire format, the way
// spec.md §6.4 requires a header UUID gating compatibility. Bumping the
// format requires minting a new UUID; old artifacts then fail to load
// with an "unsupported serialization UUID" error instead of silently
// misparsing.
var SerializedATNUUID = uuid.MustParse("8c7c3a1e-2a3b-4f0a-9c1d-6e7d5b9a2f40")

// wireState/wireTransition/wireInterval/wireFile mirror the teacher's
// own spec.CompiledGrammar: small JSON-tagged structs describing a
// compiled artifact, JSON-encoded rather than packed 16-bit code units:
// a state table whose entries carry their own transitions, rule index and
// decision index. Load rebuilds the decision and rule start/stop maps
// from those per-state fields; the decision_to_state field is neither
// written by Serialize nor read by Load.
type wireInterval struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

type wireTransition struct {
	Kind            int            `json:"kind"`
	Target          int            `json:"target"`
	Label           int            `json:"label,omitempty"`
	RangeLo         int            `json:"range_lo,omitempty"`
	RangeHi         int            `json:"range_hi,omitempty"`
	Set             []wireInterval `json:"set,omitempty"`
	RuleIndex       int            `json:"rule_index,omitempty"`
	FollowState     int            `json:"follow_state,omitempty"`
	Precedence      int            `json:"precedence,omitempty"`
	CallRuleStop    int            `json:"call_rule_stop,omitempty"`
	PredRuleIndex   int            `json:"pred_rule_index,omitempty"`
	PredIndex       int            `json:"pred_index,omitempty"`
	ActionIndex     int            `json:"action_index,omitempty"`
	IsCtxDependent  bool           `json:"is_ctx_dependent,omitempty"`
	PrecedenceLevel int            `json:"precedence_level,omitempty"`
}

type wireState struct {
	Kind          int              `json:"kind"`
	RuleIndex     int              `json:"rule_index"`
	EndState      int              `json:"end_state"` // -1 = none
	DecisionIndex int              `json:"decision_index"`      // -1 = not a decision
	NonGreedy     bool             `json:"non_greedy,omitempty"`
	Transitions   []wireTransition `json:"transitions"`
}

type wireFile struct {
	UUID            string      `json:"uuid"`
	Version         int         `json:"version"`
	Grammar         int         `json:"grammar_type"`
	MaxTokenType    int         `json:"max_token_type"`
	States          []wireState `json:"states"`
	DecisionToState []int       `json:"decision_to_state"`
}

// CurrentVersion is the only version this loader accepts.
const CurrentVersion = 1

// Load decodes a serialized ATN produced by Serialize. It fails with an
// UnsupportedOperation-flavored error on a UUID or version mismatch,
// matching spec.md §4.3.
func Load(r io.Reader) (*ATN, error) {
	var wf wireFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wf); err != nil {
		return nil, errors.Wrap(err, "atn: malformed serialized ATN")
	}

	got, err := uuid.Parse(wf.UUID)
	if err != nil {
		return nil, errors.Wrap(err, "atn: unreadable format UUID")
	}
	if got != SerializedATNUUID {
		return nil, errors.Errorf("atn: unsupported serialization UUID: %v", got)
	}
	if wf.Version != CurrentVersion {
		return nil, errors.Errorf("atn: unsupported serialization version: %v (want %v)", wf.Version, CurrentVersion)
	}

	a := New(GrammarKind(wf.Grammar))
	a.MaxTokenType = wf.MaxTokenType

	states := make([]*State, len(wf.States))
	for i, ws := range wf.States {
		s := &State{
			Num:           i,
			Kind:          StateKind(ws.Kind),
			RuleIndex:     ws.RuleIndex,
			DecisionIndex: ws.DecisionIndex,
			NonGreedy:     ws.NonGreedy,
		}
		if ws.DecisionIndex < 0 {
			s.DecisionIndex = -1
		}
		states[i] = s
	}
	resolveState := func(idx int) (*State, error) {
		if idx < 0 || idx >= len(states) {
			return nil, errors.Errorf("atn: state index out of range: %v", idx)
		}
		return states[idx], nil
	}

	for i, ws := range wf.States {
		s := states[i]
		if ws.EndState >= 0 {
			end, err := resolveState(ws.EndState)
			if err != nil {
				return nil, errors.Wrap(err, "atn: end-state reference")
			}
			s.EndState = end
		}
		for _, wt := range ws.Transitions {
			t := &Transition{
				Kind:            TransitionKind(wt.Kind),
				RuleIndex:       wt.RuleIndex,
				Precedence:      wt.Precedence,
				Label:           wt.Label,
				RangeLo:         wt.RangeLo,
				RangeHi:         wt.RangeHi,
				PredRuleIndex:   wt.PredRuleIndex,
				PredIndex:       wt.PredIndex,
				ActionIndex:     wt.ActionIndex,
				IsCtxDependent:  wt.IsCtxDependent,
				PrecedenceLevel: wt.PrecedenceLevel,
			}
			target, err := resolveState(wt.Target)
			if err != nil {
				return nil, errors.Wrap(err, "atn: transition target")
			}
			t.Target = target
			if wt.Kind == int(TransitionRule) {
				callStop, err := resolveState(wt.CallRuleStop)
				if err != nil {
					return nil, errors.Wrap(err, "atn: rule-call stop state")
				}
				t.CallRuleStop = callStop
				follow, err := resolveState(wt.FollowState)
				if err != nil {
					return nil, errors.Wrap(err, "atn: rule-call follow state")
				}
				t.FollowState = follow
			}
			if len(wt.Set) > 0 {
				set := interval.New()
				for _, iv := range wt.Set {
					set.AddRange(iv.Lo, iv.Hi)
				}
				t.Set = set
			}
			s.AddTransition(t)
		}

		a.AddState(s)
	}

	return a, nil
}

// Serialize encodes a into the wire format Load understands.
func Serialize(a *ATN, w io.Writer) error {
	wf := wireFile{
		UUID:         SerializedATNUUID.String(),
		Version:      CurrentVersion,
		Grammar:      int(a.Grammar),
		MaxTokenType: a.MaxTokenType,
	}
	stateIndex := make(map[*State]int, len(a.States))
	for i, s := range a.States {
		stateIndex[s] = i
	}
	for _, s := range a.States {
		ws := wireState{
			Kind:          int(s.Kind),
			RuleIndex:     s.RuleIndex,
			DecisionIndex: s.DecisionIndex,
			NonGreedy:     s.NonGreedy,
			EndState:      -1,
		}
		if s.EndState != nil {
			ws.EndState = stateIndex[s.EndState]
		}
		for _, t := range s.Transitions {
			wt := wireTransition{
				Kind:            int(t.Kind),
				Target:          stateIndex[t.Target],
				Label:           t.Label,
				RangeLo:         t.RangeLo,
				RangeHi:         t.RangeHi,
				RuleIndex:       t.RuleIndex,
				Precedence:      t.Precedence,
				PredRuleIndex:   t.PredRuleIndex,
				PredIndex:       t.PredIndex,
				ActionIndex:     t.ActionIndex,
				IsCtxDependent:  t.IsCtxDependent,
				PrecedenceLevel: t.PrecedenceLevel,
			}
			if t.FollowState != nil {
				wt.FollowState = stateIndex[t.FollowState]
			}
			if t.CallRuleStop != nil {
				wt.CallRuleStop = stateIndex[t.CallRuleStop]
			}
			if t.Set != nil {
				for _, iv := range t.Set.Intervals() {
					wt.Set = append(wt.Set, wireInterval{Lo: iv.Lo, Hi: iv.Hi})
				}
			}
			ws.Transitions = append(ws.Transitions, wt)
		}
		wf.States = append(wf.States, ws)
	}

	enc := json.NewEncoder(w)
	return enc.Encode(wf)
}
