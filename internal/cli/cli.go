// Package cli implements the semigroups command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/semigroups/pkg/buildinfo"
	"github.com/matzehuels/semigroups/pkg/cache"
	"github.com/matzehuels/semigroups/pkg/gens"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "semigroups"

	// defaultTimeoutSecs bounds one enumeration before the CLI gives up
	// (seconds).
	defaultTimeoutSecs = 300
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "semigroups",
		Short:        "Semigroups enumerates finite semigroups from generators",
		Long:         `Semigroups is a CLI tool for enumerating finite semigroups and monoids from generating transformations, partial permutations, permutations, or boolean matrices, exposing their elements, defining rules, and Cayley graphs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.enumerateCommand())
	root.AddCommand(c.elementsCommand())
	root.AddCommand(c.rulesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Spec Loading
// =============================================================================

// loadSpec reads and validates a generator specification file.
func loadSpec(path string) (*gens.Spec, error) {
	spec, err := gens.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return spec, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/semigroups/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Word Formatting
// =============================================================================

// letterName renders generator i as a letter, a through z, falling back
// to a numbered form for larger alphabets.
func letterName(i uint32) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return fmt.Sprintf("g%d", i)
}

// wordString renders a word over the generators, e.g. "aba".
func wordString(word []uint32) string {
	s := ""
	for _, a := range word {
		s += letterName(a)
	}
	return s
}

// letterNames returns edge labels for the first n generators.
func letterNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = letterName(uint32(i))
	}
	return out
}
