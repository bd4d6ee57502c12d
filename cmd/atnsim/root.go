package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "atnsim",
	Short: "Drive an adaptive LL(*) prediction engine over a serialized ATN",
	Long: `atnsim provides two features:
- Describes a serialized ATN's structure (states, transitions, decisions).
- Runs AdaptivePredict over a token sequence, for debugging a decision
  a generated parser would make.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
