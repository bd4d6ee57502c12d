// Package token defines the symbol-stream contracts the simulator
// consumes: a Token with a type/channel/position, and the Consume/LA/
// Mark/Release stream interface spec.md §6 assumes. Grounded on
// driver/token_stream.go's VToken/tokenStream pair, generalized from a
// single maleeni-backed lexer to an arbitrary upstream source.
package token

// EOF is the token type and char returned once a stream is exhausted.
const EOF = -1

// Channel values a Token may carry. HiddenChannel is reserved for
// whitespace/comments a lexer skips but still emits. Nothing in this
// repository filters by channel: BufferedTokenStream and the simulator
// see tokens of every channel.
const (
	DefaultChannel = 0
	HiddenChannel  = 1
)

// MinUserTokenType is the lowest token type a grammar may assign;
// types below it are reserved (EOF, epsilon internal to the ATN).
const MinUserTokenType = 1

// Token is one lexical symbol handed to the parser.
type Token interface {
	Type() int
	Channel() int
	Text() string
	Line() int
	Column() int
	// Index is this token's zero-based position in its source stream.
	Index() int
}

// BaseToken is a concrete Token a lexer can embed or return directly.
type BaseToken struct {
	TokenType    int
	TokenChannel int
	TokenText    string
	TokenLine    int
	TokenColumn  int
	TokenIndex   int
}

func (t *BaseToken) Type() int    { return t.TokenType }
func (t *BaseToken) Channel() int { return t.TokenChannel }
func (t *BaseToken) Text() string { return t.TokenText }
func (t *BaseToken) Line() int    { return t.TokenLine }
func (t *BaseToken) Column() int  { return t.TokenColumn }
func (t *BaseToken) Index() int   { return t.TokenIndex }

// TokenStream is the sequence of Tokens AdaptivePredict looks ahead
// into. Consume/Seek/Mark/Release let the simulator speculatively
// advance during closure and roll back on failure, the same contract
// driver.tokenStream.Next is generalized from.
type TokenStream interface {
	// LA returns the type of the token i positions ahead of the current
	// position (1-based, matching ANTLR's LA(1) convention); LA(1) is
	// the next unconsumed token.
	LA(i int) int

	// LT returns the token i positions ahead, or nil past EOF.
	LT(i int) Token

	// Consume advances past the current token.
	Consume()

	// Mark begins a speculative region the simulator may Seek back to via
	// Release; returns an opaque handle.
	Mark() int

	// Release ends the speculative region started by Mark.
	Release(marker int)

	// Index returns the current zero-based position.
	Index() int

	// Seek repositions the stream to index.
	Seek(index int)

	// Size returns the number of tokens buffered so far, or -1 if
	// unknown (an unbounded live stream).
	Size() int

	// SourceName identifies the underlying source for diagnostics.
	SourceName() string
}

// CharStream is the character-level counterpart TokenStream is built
// atop, consumed by LexerATNSimulator the same way TokenStream is
// consumed by ParserATNSimulator.
type CharStream interface {
	LA(i int) int
	Consume()
	Mark() int
	Release(marker int)
	Index() int
	Seek(index int)
	Size() int
	SourceName() string
}
