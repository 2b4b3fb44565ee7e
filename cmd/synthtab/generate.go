package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leengari/synthtab/internal/config"
	"github.com/leengari/synthtab/internal/domain/constraint"
	"github.com/leengari/synthtab/internal/export"
	"github.com/leengari/synthtab/internal/filter"
	"github.com/leengari/synthtab/internal/generator"
	"github.com/leengari/synthtab/internal/loader"
	"github.com/leengari/synthtab/internal/session"
)

var generateFlags struct {
	input       string
	rows        int
	output      string
	format      string
	categorical []string
	ranges      []string
	allows      []string
	windows     []string
	combine     bool
	compare     bool
	seed        int64
	rounds      int
	strict      bool
	specFile    string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic dataset from a source file",
	Long: `Generate fits a model on the source dataset and samples synthetic
rows that follow its distributions. Rows violating a declared
constraint are rejected and resampled under a bounded budget; if the
budget runs out the shortfall is reported (and fails the command under
--strict).

Examples:
  synthtab generate --input people.xlsx --rows 500 --output synth.csv
  synthtab generate --input people.csv --rows 100 \
      --range age=20:30 --allow plan=A --combine --compare
  synthtab generate --spec generation.yaml`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.input, "input", "i", "", "source dataset (.csv or .xlsx)")
	f.IntVarP(&generateFlags.rows, "rows", "n", 100, "synthetic rows to generate")
	f.StringVarP(&generateFlags.output, "output", "o", "synthetic.csv", "output file path")
	f.StringVar(&generateFlags.format, "format", "", "output format: csv, json or xlsx (default from extension)")
	f.StringSliceVar(&generateFlags.categorical, "categorical", nil, "columns to force to the categorical kind")
	f.StringArrayVar(&generateFlags.ranges, "range", nil, "numeric constraint, col=min:max (repeatable)")
	f.StringArrayVar(&generateFlags.allows, "allow", nil, "categorical constraint, col=v1,v2 (repeatable)")
	f.StringArrayVar(&generateFlags.windows, "window", nil, "datetime constraint, col=start..end (repeatable)")
	f.BoolVar(&generateFlags.combine, "combine", false, "prepend the original rows to the output")
	f.BoolVar(&generateFlags.compare, "compare", false, "print original vs synthetic distribution summaries")
	f.Int64Var(&generateFlags.seed, "seed", 0, "random seed (0 derives one from the clock)")
	f.IntVar(&generateFlags.rounds, "max-resample-rounds", 10, "resample rounds before reporting a shortfall (0 disables resampling)")
	f.BoolVar(&generateFlags.strict, "strict", false, "treat a row-count shortfall as an error")
	f.StringVar(&generateFlags.specFile, "spec", "", "YAML generation spec file (overrides the other flags)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	input := generateFlags.input
	rows := generateFlags.rows
	output := generateFlags.output
	formatName := generateFlags.format
	categorical := generateFlags.categorical
	combine := generateFlags.combine
	compareFlag := generateFlags.compare
	seed := generateFlags.seed
	rounds := generateFlags.rounds
	strict := generateFlags.strict

	var store *constraint.Store
	if generateFlags.specFile != "" {
		spec, err := config.Load(generateFlags.specFile)
		if err != nil {
			return err
		}
		if store, err = spec.Store(); err != nil {
			return err
		}
		input = spec.Input
		rows = spec.Rows
		output = spec.Output
		formatName = spec.Format
		categorical = spec.Categorical
		combine = spec.Combine
		compareFlag = spec.Compare
		seed = spec.Seed
		strict = spec.Strict
		if spec.MaxRounds > 0 {
			rounds = spec.MaxRounds
		}
	} else {
		var err error
		store, err = buildStore(generateFlags.ranges, generateFlags.allows, generateFlags.windows)
		if err != nil {
			return err
		}
	}

	if input == "" {
		return fmt.Errorf("an input file is required (--input or a spec file)")
	}
	if rounds < 0 {
		return fmt.Errorf("--max-resample-rounds cannot be negative, got %d", rounds)
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = clockSeed()
	}

	source, err := loader.Load(input, loader.Options{Categorical: categorical}, logger)
	if err != nil {
		return err
	}

	sess := session.New(generator.NewEmpirical(seed, logger), logger)
	result, err := sess.Run(cmd.Context(), session.Request{
		Source:      source,
		Rows:        rows,
		Constraints: store,
		Combine:     combine,
		Compare:     compareFlag,
		Policy:      filter.Policy{MaxRounds: rounds, MinBatch: filter.DefaultPolicy().MinBatch},
	})
	if err != nil {
		return err
	}

	printPreview(cmd.OutOrStdout(), result.Output)
	if compareFlag {
		printComparisons(cmd.OutOrStdout(), result.Comparisons)
	}

	if err := export.Write(result.Output, output, format, logger); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", result.Output.Len(), output)

	if result.Shortfall != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", result.Shortfall.Error())
		if strict {
			return result.Shortfall
		}
	}
	return nil
}
