package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veletar/mva/backend"
	"github.com/veletar/mva/bss"
	"github.com/veletar/mva/decompose"
)

// RunConfig is the yaml description of one decomposition run. Masks are
// given as lists of excluded indices.
type RunConfig struct {
	Algorithm                string `yaml:"algorithm"`
	OutputDimension          int    `yaml:"output_dimension"`
	Centre                   string `yaml:"centre"`
	NormalizePoissonianNoise bool   `yaml:"normalize_poissonian_noise"`
	Reproject                string `yaml:"reproject"`
	Solver                   string `yaml:"svd_solver"`
	NavigationMask           []int  `yaml:"navigation_mask"`
	SignalMask               []int  `yaml:"signal_mask"`

	BSS *BSSRunConfig `yaml:"bss"`
}

// BSSRunConfig optionally chains a separation after the decomposition.
type BSSRunConfig struct {
	Algorithm          string  `yaml:"algorithm"`
	NumberOfComponents int     `yaml:"number_of_components"`
	DiffOrder          *int    `yaml:"diff_order"`
	OnLoadings         bool    `yaml:"on_loadings"`
	WhitenMethod       string  `yaml:"whiten_method"`
	ReverseCriterion   string  `yaml:"reverse_component_criterion"`
	Gamma              float64 `yaml:"gamma"`
}

func defaultRunConfig() RunConfig {
	return RunConfig{
		Algorithm: backend.AlgSVD,
		Solver:    string(backend.SolverAuto),
	}
}

func loadRunConfig(path string) (RunConfig, error) {
	cfg := defaultRunConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// options translates the run-config into engine options for a dataset
// with the given axis extents.
func (c RunConfig) options(navSize, sigSize int) (decompose.Options, error) {
	opts := decompose.DefaultOptions()
	opts.Algorithm = c.Algorithm
	opts.OutputDimension = c.OutputDimension
	opts.Centre = backend.Centre(c.Centre)
	opts.NormalizePoissonianNoise = c.NormalizePoissonianNoise
	opts.Reproject = decompose.Reproject(c.Reproject)
	if c.Solver != "" {
		opts.Solver = backend.Solver(c.Solver)
	}

	var err error
	if opts.NavigationMask, err = excludeMask(c.NavigationMask, navSize, "navigation"); err != nil {
		return opts, err
	}
	if opts.SignalMask, err = excludeMask(c.SignalMask, sigSize, "signal"); err != nil {
		return opts, err
	}
	return opts, nil
}

// bssOptions translates the optional separation block.
func (c *BSSRunConfig) bssOptions() decompose.BSSOptions {
	opts := decompose.DefaultBSSOptions()
	if c.Algorithm != "" {
		opts.Algorithm = c.Algorithm
	}
	opts.NumberOfComponents = c.NumberOfComponents
	if c.DiffOrder != nil {
		opts.DiffOrder = *c.DiffOrder
	}
	opts.OnLoadings = c.OnLoadings
	if c.WhitenMethod != "" {
		opts.WhitenMethod = bss.WhitenMethod(c.WhitenMethod)
	}
	if c.ReverseCriterion != "" {
		opts.ReverseCriterion = bss.ReverseCriterion(c.ReverseCriterion)
	}
	if c.Gamma != 0 {
		opts.Orthomax.Gamma = c.Gamma
	}
	return opts
}

func excludeMask(indices []int, extent int, axis string) ([]bool, error) {
	if len(indices) == 0 {
		return nil, nil
	}
	mask := make([]bool, extent)
	for _, i := range indices {
		if i < 0 || i >= extent {
			return nil, fmt.Errorf("%s mask index %d outside [0, %d)", axis, i, extent)
		}
		mask[i] = true
	}
	return mask, nil
}
