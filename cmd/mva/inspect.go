package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/veletar/mva/results"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [archive.mvz]",
	Short: "Print the parameters and shapes of a saved result archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	lr, err := results.Load(args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, lr.Summary())
	fmt.Fprintln(out)
	printShape(out, "factors", lr.Factors)
	printShape(out, "loadings", lr.Loadings)
	printShape(out, "bss_factors", lr.BSSFactors)
	printShape(out, "bss_loadings", lr.BSSLoadings)
	printShape(out, "unmixing_matrix", lr.UnmixingMatrix)
	fmt.Fprintf(out, "explained_variance entries: %d\n", len(lr.ExplainedVariance))
	fmt.Fprintf(out, "significant components: %d\n", lr.NumberSignificantComponents)
	return nil
}

func printShape(out io.Writer, name string, m *mat.Dense) {
	if m == nil {
		fmt.Fprintf(out, "%s: none\n", name)
		return
	}
	r, c := m.Dims()
	fmt.Fprintf(out, "%s: %dx%d\n", name, r, c)
}
