package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/semigroups/pkg/cache"
	"github.com/matzehuels/semigroups/pkg/froidurepin"
	"github.com/matzehuels/semigroups/pkg/gens"
)

// enumerateCommand creates the enumerate command.
func (c *CLI) enumerateCommand() *cobra.Command {
	var (
		noCache   bool
		jsonOut   bool
		watch     bool
		batchSize int
		timeout   int
	)

	cmd := &cobra.Command{
		Use:   "enumerate [generators.toml]",
		Short: "Enumerate the semigroup generated by a specification",
		Long: `Enumerate the semigroup generated by a specification.

The specification file (TOML or JSON) names an element type, a degree,
and a list of generators using 1-based images (0 marks an undefined
point for partial permutations):

  type = "transf"
  degree = 3
  generators = [[2, 1, 3], [2, 3, 1], [1, 1, 3]]

The summary reports the semigroup's size, defining rule count,
idempotents, and word length distribution. Results are cached locally,
keyed by the generator set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEnumerate(cmd, args[0], enumerateOptions{
				noCache:   noCache,
				jsonOut:   jsonOut,
				watch:     watch,
				batchSize: batchSize,
				timeout:   time.Duration(timeout) * time.Second,
			})
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "show live progress while enumerating")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "products per enumeration batch (default engine setting)")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", defaultTimeoutSecs, "enumeration timeout in seconds")

	return cmd
}

type enumerateOptions struct {
	noCache   bool
	jsonOut   bool
	watch     bool
	batchSize int
	timeout   time.Duration
}

// runEnumerate loads the specification, enumerates, and prints the summary.
func (c *CLI) runEnumerate(cmd *cobra.Command, path string, opts enumerateOptions) error {
	ctx := cmd.Context()

	spec, err := loadSpec(path)
	if err != nil {
		return err
	}

	results, err := newCache(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer results.Close()

	vectors, err := spec.GeneratorVectors()
	if err != nil {
		return err
	}
	runKey := cache.NewDefaultKeyer().RunKey(cache.RunKeyOpts{
		ElementType: spec.Type,
		Generators:  vectors,
	})

	if data, ok, err := results.Get(ctx, runKey); err == nil && ok {
		var sum gens.Summary
		if err := json.Unmarshal(data, &sum); err == nil {
			c.Logger.Debug("summary served from cache", "key", runKey)
			return c.printSummary(cmd, &sum, opts.jsonOut, true)
		}
	}

	sum, err := c.enumerate(ctx, spec, opts)
	if err != nil {
		return err
	}
	if sum == nil {
		// Stopped before completion; partial output already printed.
		return nil
	}

	if data, err := json.Marshal(sum); err == nil {
		if err := results.Set(ctx, runKey, data, cache.TTLRun); err != nil {
			c.Logger.Debug("caching summary failed", "err", err)
		}
	}
	return c.printSummary(cmd, sum, opts.jsonOut, false)
}

// enumerate runs the engine to completion or to the timeout. It returns
// a nil summary when the run stopped early.
func (c *CLI) enumerate(ctx context.Context, spec *gens.Spec, opts enumerateOptions) (*gens.Summary, error) {
	var engineOpts []froidurepin.Option
	if opts.batchSize > 0 {
		engineOpts = append(engineOpts, froidurepin.WithBatchSize(opts.batchSize))
	}
	eng, err := gens.Open(spec, engineOpts...)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	if opts.watch {
		killed, err := runWithProgress(runCtx, eng)
		if err != nil {
			return nil, fmt.Errorf("enumerate: %w", err)
		}
		if killed || !eng.Finished() {
			printWarning("Enumeration stopped: %s", eng.WhyWeStopped())
			printStats(eng.CurrentSize(), eng.CurrentNumberOfRules(), false)
			return nil, nil
		}
	} else {
		spinner := newSpinnerWithContext(runCtx, fmt.Sprintf("Enumerating %s semigroup...", spec.Type))
		spinner.Start()
		if err := eng.RunFor(runCtx, opts.timeout); err != nil {
			spinner.StopWithError("Enumeration failed")
			return nil, fmt.Errorf("enumerate: %w", err)
		}
		spinner.Stop()
		if !eng.Finished() {
			printWarning("Enumeration stopped: %s", eng.WhyWeStopped())
			printStats(eng.CurrentSize(), eng.CurrentNumberOfRules(), false)
			return nil, nil
		}
	}

	return gens.Summarize(ctx, spec, eng)
}

// printSummary renders a summary, styled or as JSON.
func (c *CLI) printSummary(cmd *cobra.Command, sum *gens.Summary, jsonOut, cached bool) error {
	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	structure := "semigroup"
	if sum.ContainsOne {
		structure = "monoid"
	}

	printNewline()
	printKeyValue("type", sum.Type)
	printKeyNumber("degree", sum.Degree)
	printKeyNumber("generators", sum.Generators)
	printKeyNumber("size", sum.Size)
	printKeyNumber("rules", sum.Rules)
	printKeyNumber("idempotents", sum.Idempotents)
	printKeyValue("structure", structure)
	printKeyNumber("max word length", sum.MaxWordLength)
	printKeyValue("by length", lengthDistribution(sum.ElementsOfLength))
	printNewline()
	printStats(sum.Size, sum.Rules, cached)
	return nil
}

// lengthDistribution renders the per-length element counts compactly,
// e.g. "3, 6, 12, 6".
func lengthDistribution(counts []int) string {
	if len(counts) < 2 {
		return "-"
	}
	parts := make([]string, 0, len(counts)-1)
	for _, n := range counts[1:] {
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return strings.Join(parts, ", ")
}
