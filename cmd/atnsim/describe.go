package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/nihei9/goantlr-atn/atn"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe <atn file path>",
		Short:   "Print a serialized ATN's structure in readable form",
		Example: `  atnsim describe grammar.atn.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) (retErr error) {
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

	kindCounts := map[atn.TransitionKind]int{}
	decisions := 0
	for _, s := range a.States {
		if s.IsDecisionState() {
			decisions++
		}
		for _, t := range s.Transitions {
			kindCounts[t.Kind]++
		}
	}

	fmt.Printf("grammar: %v\n", grammarKindName(a.Grammar))
	fmt.Printf("states: %v\n", len(a.States))
	fmt.Printf("decisions: %v\n", decisions)
	fmt.Printf("max token type: %v\n", a.MaxTokenType)
	fmt.Println("transitions by kind:")
	for k := atn.TransitionEpsilon; k <= atn.TransitionAction; k++ {
		if n := kindCounts[k]; n > 0 {
			fmt.Printf("  %-12v %v\n", k, n)
		}
	}

	return nil
}

func grammarKindName(k atn.GrammarKind) string {
	switch k {
	case atn.GrammarLexer:
		return "lexer"
	case atn.GrammarParser:
		return "parser"
	case atn.GrammarCombined:
		return "combined"
	default:
		return "unknown"
	}
}

func readATN(path string) (*atn.ATN, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()
	return atn.Load(f)
}
