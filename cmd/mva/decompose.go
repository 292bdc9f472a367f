package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veletar/mva/dataset"
	"github.com/veletar/mva/decompose"
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose [data.csv] [out.mvz]",
	Short: "Decompose a CSV matrix and save the learning results",
	Long: `Decompose a CSV matrix (rows = navigation, columns = signal channels)
with the algorithm described by the run-config and save the learning
results as a compressed archive.

Example run-config:

  algorithm: svd
  output_dimension: 3
  normalize_poissonian_noise: true
  navigation_mask: [2, 7]
  bss:
    algorithm: orthomax
    number_of_components: 3`,
	Args: cobra.ExactArgs(2),
	RunE: runDecompose,
}

var decomposeConfigPath string

func init() {
	decomposeCmd.Flags().StringVar(&decomposeConfigPath, "config", "", "yaml run-config path")
	rootCmd.AddCommand(decomposeCmd)
}

func runDecompose(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(decomposeConfigPath)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open data: %w", err)
	}
	defer f.Close()
	ds, err := dataset.FromCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	opts, err := cfg.options(ds.NavSize(), ds.SigSize())
	if err != nil {
		return err
	}

	an := decompose.New(ds)
	if _, err := an.Decomposition(opts); err != nil {
		return fmt.Errorf("decomposition: %w", err)
	}
	if cfg.BSS != nil {
		if err := an.BlindSourceSeparation(cfg.BSS.bssOptions()); err != nil {
			return fmt.Errorf("blind source separation: %w", err)
		}
	}

	lr := an.Results()
	fmt.Fprintln(cmd.OutOrStdout(), lr.Summary())
	for _, w := range lr.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	if err := lr.Save(args[1]); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nresults written to %s\n", args[1])
	return nil
}
