package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nihei9/goantlr-atn/perr"
	"github.com/nihei9/goantlr-atn/prediction"
	"github.com/nihei9/goantlr-atn/simulator"
	"github.com/nihei9/goantlr-atn/token"
)

var predictFlags = struct {
	diagnostics *bool
	exactAmbig  *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "predict <atn file path> <decision> <token type>...",
		Short:   "Run AdaptivePredict over a token sequence",
		Example: `  atnsim predict grammar.atn.json 0 10 11 -1`,
		Args:    cobra.MinimumNArgs(2),
		RunE:    runPredict,
	}
	predictFlags.diagnostics = cmd.Flags().Bool("diagnostics", false, "print every ambiguity/full-context escalation the engine reports")
	predictFlags.exactAmbig = cmd.Flags().Bool("exact-ambig", false, "only report ambiguities where every conflicting alt subset is identical")
	rootCmd.AddCommand(cmd)
}

func runPredict(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		panicked := false
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				retErr = fmt.Errorf("an unexpected error occurred: %v", v)
				fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
				return
			}
			retErr = err
			panicked = true
		}
		if retErr != nil && panicked {
			fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
		}
	}()

	a, err := readATN(args[0])
	if err != nil {
		return fmt.Errorf("cannot read the ATN: %w", err)
	}

	decision, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid decision index %q: %w", args[1], err)
	}

	toks := make([]token.Token, 0, len(args)-2+1)
	for i, arg := range args[2:] {
		ty, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid token type %q: %w", arg, err)
		}
		toks = append(toks, &token.BaseToken{TokenType: ty, TokenIndex: i})
	}
	toks = append(toks, &token.BaseToken{TokenType: token.EOF, TokenIndex: len(toks)})
	input := token.NewBufferedTokenStream(args[0], toks)

	var listener perr.ErrorListener
	if *predictFlags.diagnostics {
		listener = perr.NewDiagnosticErrorListener(*predictFlags.exactAmbig)
	}

	sim := simulator.NewParserATNSimulator(a, 1024, nil, listener)
	alt, err := sim.AdaptivePredict(input, decision, prediction.Empty)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	fmt.Printf("alt: %v\n", alt)
	return nil
}
