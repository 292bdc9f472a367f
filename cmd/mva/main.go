// Command mva runs matrix-factorization decompositions and blind
// source separation over CSV matrices, described by a yaml run-config,
// and inspects the resulting archives.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "mva",
	Short:         "Matrix decomposition and blind source separation toolkit",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
