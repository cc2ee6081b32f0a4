package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/semigroups/pkg/cache"
	"github.com/matzehuels/semigroups/pkg/errors"
	"github.com/matzehuels/semigroups/pkg/gens"
	"github.com/matzehuels/semigroups/pkg/wordgraph"
)

// graphCommand creates the graph command for rendering Cayley graphs.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		side    string
		format  string
		output  string
		noCache bool
		timeout int
	)

	cmd := &cobra.Command{
		Use:   "graph [generators.toml]",
		Short: "Render the Cayley graph of the generated semigroup",
		Long: `Render the Cayley graph of the generated semigroup.

The right Cayley graph has one node per element, labelled with its
normal form, and an edge for each generator acting by right
multiplication; --side left renders the left action instead. Output
formats are dot, svg, and png. Rendered graphs are cached locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if side != "right" && side != "left" {
				return errors.New(errors.ErrCodeInvalidInput,
					"unknown side %q (want right or left)", side)
			}
			if err := errors.ValidateOutputFormat(format); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), args[0], side, format, output, noCache,
				time.Duration(timeout)*time.Second)
		},
	}

	cmd.Flags().StringVar(&side, "side", "right", "which action to draw: right or left")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot, svg, or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults next to the input)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", defaultTimeoutSecs, "enumeration timeout in seconds")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, path, side, format, output string, noCache bool, timeout time.Duration) error {
	spec, err := loadSpec(path)
	if err != nil {
		return err
	}
	if output == "" {
		base := strings.TrimSuffix(path, ".toml")
		base = strings.TrimSuffix(base, ".json")
		output = fmt.Sprintf("%s.%s.%s", base, side, format)
	}

	artifacts, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer artifacts.Close()

	vectors, err := spec.GeneratorVectors()
	if err != nil {
		return err
	}
	keyer := cache.NewDefaultKeyer()
	runKey := keyer.RunKey(cache.RunKeyOpts{ElementType: spec.Type, Generators: vectors})
	key := keyer.ArtifactKey(runKey, cache.ArtifactKeyOpts{Side: side, Format: format})

	if data, ok, err := artifacts.Get(ctx, key); err == nil && ok {
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printSuccess("Rendered %s Cayley graph", side)
		printFile(output)
		printDetail("%d bytes · cached", len(data))
		return nil
	}

	data, nodes, err := c.renderGraph(ctx, spec, side, format, timeout)
	if err != nil {
		return err
	}
	if err := artifacts.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		c.Logger.Debug("caching artifact failed", "err", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Rendered %s Cayley graph", side)
	printFile(output)
	printDetail("%d nodes · %d bytes", nodes, len(data))
	return nil
}

// renderGraph enumerates and renders one Cayley graph, returning the
// artifact bytes and the node count.
func (c *CLI) renderGraph(ctx context.Context, spec *gens.Spec, side, format string, timeout time.Duration) ([]byte, int, error) {
	eng, err := gens.Open(spec)
	if err != nil {
		return nil, 0, err
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	spinner := newSpinnerWithContext(runCtx, fmt.Sprintf("Rendering %s Cayley graph...", side))
	spinner.Start()

	var g *wordgraph.Graph
	if side == "left" {
		g, err = eng.LeftCayleyGraph(runCtx)
	} else {
		g, err = eng.RightCayleyGraph(runCtx)
	}
	if err != nil {
		spinner.StopWithError("Enumeration failed")
		return nil, 0, fmt.Errorf("graph: %w", err)
	}

	// Node labels are the elements' normal forms.
	forms, err := eng.NormalForms(runCtx)
	if err != nil {
		spinner.StopWithError("Enumeration failed")
		return nil, 0, fmt.Errorf("graph: %w", err)
	}
	names := make([]string, len(forms))
	for i, w := range forms {
		names[i] = wordString(w)
	}

	data, err := wordgraph.Render(runCtx, g, wordgraph.DOTOptions{
		Name:        side,
		LetterNames: letterNames(eng.NumberOfGenerators()),
		NodeNames:   names,
	}, format)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return nil, 0, fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	return data, int(g.NumberOfNodes()), nil
}
