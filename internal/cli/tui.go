package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/semigroups/pkg/gens"
)

// stepInterval is how long each enumeration slice runs between frames.
const stepInterval = 100 * time.Millisecond

// =============================================================================
// progressModel - Live enumeration progress
// =============================================================================

// stepMsg reports one completed enumeration slice.
type stepMsg struct{ err error }

// progressModel drives an enumeration in short slices, so the engine is
// only touched between frames and the display stays live. The engine is
// owned by the model; at most one slice runs at a time.
type progressModel struct {
	ctx context.Context
	eng gens.Engine

	size    int
	rules   int
	maxLen  int
	started time.Time
	killed  bool
	err     error
}

// newProgressModel creates a progress model over an unstarted engine.
func newProgressModel(ctx context.Context, eng gens.Engine) progressModel {
	return progressModel{ctx: ctx, eng: eng, started: time.Now()}
}

func (m progressModel) step() tea.Cmd {
	return func() tea.Msg {
		return stepMsg{err: m.eng.RunFor(m.ctx, stepInterval)}
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.step()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// Kill is safe while a slice is in flight; the engine stops
			// at the next batch boundary.
			m.eng.Kill()
			m.killed = true
			return m, tea.Quit
		}
	case stepMsg:
		m.err = msg.err
		if m.err != nil {
			return m, tea.Quit
		}
		m.size = m.eng.CurrentSize()
		m.rules = m.eng.CurrentNumberOfRules()
		m.maxLen = m.eng.CurrentMaxWordLength()
		if m.eng.Finished() || m.eng.Dead() {
			return m, tea.Quit
		}
		return m, m.step()
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Enumerating"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %s %s\n",
		StyleDim.Render("elements"), StyleNumber.Render(fmt.Sprintf("%d", m.size))))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		StyleDim.Render("rules"), StyleNumber.Render(fmt.Sprintf("%d", m.rules))))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		StyleDim.Render("word length"), StyleNumber.Render(fmt.Sprintf("%d", m.maxLen))))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		StyleDim.Render("elapsed"), StyleValue.Render(time.Since(m.started).Round(time.Millisecond).String())))

	return b.String()
}

// runWithProgress enumerates eng to completion behind a live display.
// It reports whether the user killed the run.
func runWithProgress(ctx context.Context, eng gens.Engine) (killed bool, err error) {
	final, err := tea.NewProgram(newProgressModel(ctx, eng), tea.WithContext(ctx)).Run()
	if err != nil {
		return false, err
	}
	m := final.(progressModel)
	return m.killed, m.err
}
