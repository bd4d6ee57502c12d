package perr

import (
	"fmt"
	"os"

	"github.com/nihei9/goantlr-atn/bitset"
	"github.com/nihei9/goantlr-atn/dfa"
	"github.com/nihei9/goantlr-atn/prediction"
	"github.com/nihei9/goantlr-atn/token"
)

// ErrorListener receives prediction diagnostics from the simulator
// (spec.md §6.3). Grounded on error.SpecError's role in vartan as the
// sole error-reporting surface, generalized here from a single Error()
// string into the four distinct callbacks ANTLR's runtime exposes,
// since a prediction engine has more to say than "parse failed here".
type ErrorListener interface {
	SyntaxError(recognizer interface{}, offendingSymbol token.Token, line, column int, msg string, cause error)
	ReportAmbiguity(decision int, dfaState *dfa.DFAState, startIndex, stopIndex int, exact bool, ambigAlts *bitset.BitSet, configs *prediction.ConfigSet)
	ReportAttemptingFullContext(decision int, dfaState *dfa.DFAState, startIndex, stopIndex int, conflictingAlts *bitset.BitSet, configs *prediction.ConfigSet)
	ReportContextSensitivity(decision int, dfaState *dfa.DFAState, startIndex, stopIndex, predictedAlt int, configs *prediction.ConfigSet)
}

// ConsoleErrorListener writes SyntaxError reports to stderr and ignores
// the three prediction-diagnostic callbacks, mirroring how vartan's
// SpecError.Error() is only ever surfaced for outright failures, not
// prediction-internal bookkeeping.
type ConsoleErrorListener struct{}

func (ConsoleErrorListener) SyntaxError(_ interface{}, _ token.Token, line, column int, msg string, _ error) {
	fmt.Fprintf(os.Stderr, "line %d:%d %s\n", line, column, msg)
}

func (ConsoleErrorListener) ReportAmbiguity(int, *dfa.DFAState, int, int, bool, *bitset.BitSet, *prediction.ConfigSet) {
}

func (ConsoleErrorListener) ReportAttemptingFullContext(int, *dfa.DFAState, int, int, *bitset.BitSet, *prediction.ConfigSet) {
}

func (ConsoleErrorListener) ReportContextSensitivity(int, *dfa.DFAState, int, int, int, *prediction.ConfigSet) {
}

// DiagnosticErrorListener reports every ambiguity, SLL-to-LL escalation,
// and context sensitivity it sees, matching spec.md §8.3's
// LL_EXACT_AMBIG_DETECTION scenario. ExactOnly restricts ambiguity
// reports to exact ones (every alt subset identical), the mode that
// scenario exercises.
type DiagnosticErrorListener struct {
	ExactOnly bool
	Out       *os.File
}

func NewDiagnosticErrorListener(exactOnly bool) *DiagnosticErrorListener {
	return &DiagnosticErrorListener{ExactOnly: exactOnly, Out: os.Stderr}
}

func (d *DiagnosticErrorListener) out() *os.File {
	if d.Out == nil {
		return os.Stderr
	}
	return d.Out
}

func (d *DiagnosticErrorListener) SyntaxError(_ interface{}, _ token.Token, line, column int, msg string, _ error) {
	fmt.Fprintf(d.out(), "line %d:%d %s\n", line, column, msg)
}

func (d *DiagnosticErrorListener) ReportAmbiguity(decision int, _ *dfa.DFAState, startIndex, stopIndex int, exact bool, ambigAlts *bitset.BitSet, _ *prediction.ConfigSet) {
	if d.ExactOnly && !exact {
		return
	}
	fmt.Fprintf(d.out(), "reportAmbiguity d=%d: ambigAlts=%s, input in [%d,%d]\n", decision, ambigAlts, startIndex, stopIndex)
}

func (d *DiagnosticErrorListener) ReportAttemptingFullContext(decision int, _ *dfa.DFAState, startIndex, stopIndex int, conflictingAlts *bitset.BitSet, _ *prediction.ConfigSet) {
	fmt.Fprintf(d.out(), "reportAttemptingFullContext d=%d: conflictingAlts=%s, input in [%d,%d]\n", decision, conflictingAlts, startIndex, stopIndex)
}

func (d *DiagnosticErrorListener) ReportContextSensitivity(decision int, _ *dfa.DFAState, startIndex, stopIndex, predictedAlt int, _ *prediction.ConfigSet) {
	fmt.Fprintf(d.out(), "reportContextSensitivity d=%d: prediction=%d, input in [%d,%d]\n", decision, predictedAlt, startIndex, stopIndex)
}
