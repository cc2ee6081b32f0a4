package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/semigroups/pkg/gens"
)

// rulesCommand creates the rules command for printing defining relations.
func (c *CLI) rulesCommand() *cobra.Command {
	var (
		jsonOut bool
		timeout int
	)

	cmd := &cobra.Command{
		Use:   "rules [generators.toml]",
		Short: "Print the defining rules of the generated semigroup",
		Long: `Print the defining rules of the generated semigroup.

Each rule equates two words over the generators (a, b, c, ...); the
right-hand side is always the normal form, so together with the
generators the rules present the semigroup. The rule count matches the
enumeration summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRules(cmd, args[0], jsonOut, time.Duration(timeout)*time.Second)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the rules as JSON")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", defaultTimeoutSecs, "enumeration timeout in seconds")

	return cmd
}

// ruleJSON is the JSON shape of one rule.
type ruleJSON struct {
	LHS string `json:"lhs"`
	RHS string `json:"rhs"`
}

func (c *CLI) runRules(cmd *cobra.Command, path string, jsonOut bool, timeout time.Duration) error {
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
	rules, err := eng.Rules(ctx)
	if err != nil {
		spinner.StopWithError("Enumeration failed")
		return fmt.Errorf("rules: %w", err)
	}
	spinner.Stop()

	if jsonOut {
		out := make([]ruleJSON, len(rules))
		for i, r := range rules {
			out[i] = ruleJSON{LHS: wordString(r.LHS), RHS: wordString(r.RHS)}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printInfo("%d defining rules over %d generators", len(rules), eng.NumberOfGenerators())
	for _, r := range rules {
		printRule(wordString(r.LHS), wordString(r.RHS))
	}
	return nil
}
