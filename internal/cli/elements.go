package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/semigroups/pkg/gens"
)

// elementsCommand creates the elements command for listing the
// enumerated elements with their normal forms.
func (c *CLI) elementsCommand() *cobra.Command {
	var (
		jsonOut bool
		limit   int
		timeout int
	)

	cmd := &cobra.Command{
		Use:   "elements [generators.toml]",
		Short: "List the elements of the generated semigroup",
		Long: `List the elements of the generated semigroup.

Elements are printed in discovery order, each with its position, its
normal form over the generators (a, b, c, ...), and its image notation.
Use --limit to cap the output for large semigroups.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runElements(cmd, args[0], jsonOut, limit, time.Duration(timeout)*time.Second)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the elements as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most this many elements (0 = all)")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", defaultTimeoutSecs, "enumeration timeout in seconds")

	return cmd
}

// elementJSON is the JSON shape of one element row.
type elementJSON struct {
	Position int    `json:"position"`
	Word     string `json:"word"`
	Element  string `json:"element"`
}

func (c *CLI) runElements(cmd *cobra.Command, path string, jsonOut bool, limit int, timeout time.Duration) error {
	spec, err := loadSpec(path)
	if err != nil {
		return err
	}
	eng, err := gens.Open(spec)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	spinner := newSpinnerWithContext(ctx, "Enumerating...")
	spinner.Start()
	forms, err := eng.NormalForms(ctx)
	if err != nil {
		spinner.StopWithError("Enumeration failed")
		return fmt.Errorf("elements: %w", err)
	}
	strs, err := eng.ElementStrings(ctx)
	if err != nil {
		spinner.StopWithError("Enumeration failed")
		return fmt.Errorf("elements: %w", err)
	}
	spinner.Stop()

	n := len(forms)
	if limit > 0 && limit < n {
		n = limit
	}

	if jsonOut {
		out := make([]elementJSON, n)
		for i := 0; i < n; i++ {
			out[i] = elementJSON{Position: i, Word: wordString(forms[i]), Element: strs[i]}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printInfo("%d elements", len(forms))
	for i := 0; i < n; i++ {
		fmt.Println("  " + StyleDim.Render(fmt.Sprintf("%4d", i)) + "  " +
			styleWord.Render(fmt.Sprintf("%-12s", wordString(forms[i]))) + "  " +
			StyleValue.Render(strs[i]))
	}
	if n < len(forms) {
		printDetail("... %d more", len(forms)-n)
	}
	return nil
}
