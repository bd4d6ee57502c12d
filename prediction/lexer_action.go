package prediction

// LexerAction is a single lexer command (skip, more, mode switch, type
// assignment, channel assignment, custom action) deferred until a
// LexerATNSimulator accepts a path — spec.md §9's "LexerATNConfig with a
// lexer action executor".
type LexerAction interface {
	Execute(lexer LexerActionReceiver)
}

// LexerActionReceiver is the minimal surface a generated lexer exposes
// for deferred action execution. A concrete lexer implementation lives
// outside this repository's scope (spec.md §1 non-goals).
type LexerActionReceiver interface {
	Skip()
	More()
	SetMode(mode int)
	SetType(tokenType int)
	SetChannel(channel int)
	PushMode(mode int)
	PopMode()
	CustomAction(ruleIndex, actionIndex int)
}

// LexerActionExecutor runs an ordered sequence of LexerActions.
type LexerActionExecutor struct {
	Actions []LexerAction
}

// Execute runs every action in order.
func (e *LexerActionExecutor) Execute(lexer LexerActionReceiver) {
	if e == nil {
		return
	}
	for _, a := range e.Actions {
		a.Execute(lexer)
	}
}

// Append returns a new executor with action appended, used by closure to
// accumulate actions along a path without mutating a published executor.
func (e *LexerActionExecutor) Append(a LexerAction) *LexerActionExecutor {
	var actions []LexerAction
	if e != nil {
		actions = append(actions, e.Actions...)
	}
	actions = append(actions, a)
	return &LexerActionExecutor{Actions: actions}
}

type skipAction struct{}

func (skipAction) Execute(l LexerActionReceiver) { l.Skip() }

type moreAction struct{}

func (moreAction) Execute(l LexerActionReceiver) { l.More() }

type modeAction struct{ mode int }

func (a modeAction) Execute(l LexerActionReceiver) { l.SetMode(a.mode) }

type typeAction struct{ tokenType int }

func (a typeAction) Execute(l LexerActionReceiver) { l.SetType(a.tokenType) }

type channelAction struct{ channel int }

func (a channelAction) Execute(l LexerActionReceiver) { l.SetChannel(a.channel) }

type pushModeAction struct{ mode int }

func (a pushModeAction) Execute(l LexerActionReceiver) { l.PushMode(a.mode) }

type popModeAction struct{}

func (popModeAction) Execute(l LexerActionReceiver) { l.PopMode() }

type customAction struct{ ruleIndex, actionIndex int }

func (a customAction) Execute(l LexerActionReceiver) { l.CustomAction(a.ruleIndex, a.actionIndex) }

// SkipAction, MoreAction, ModeAction, TypeAction, ChannelAction,
// PushModeAction, PopModeAction, and CustomAction build the
// corresponding LexerAction leaves.
func SkipAction() LexerAction               { return skipAction{} }
func MoreAction() LexerAction               { return moreAction{} }
func ModeAction(mode int) LexerAction       { return modeAction{mode: mode} }
func TypeAction(tokenType int) LexerAction  { return typeAction{tokenType: tokenType} }
func ChannelAction(channel int) LexerAction { return channelAction{channel: channel} }
func PushModeAction(mode int) LexerAction   { return pushModeAction{mode: mode} }
func PopModeAction() LexerAction            { return popModeAction{} }
func CustomAction(ruleIndex, actionIndex int) LexerAction {
	return customAction{ruleIndex: ruleIndex, actionIndex: actionIndex}
}
