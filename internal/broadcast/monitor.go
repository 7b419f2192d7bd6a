package broadcast

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/feltarena/feltarena/internal/game"
	"github.com/feltarena/feltarena/internal/tournament"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	boardStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	winStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	bustStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	talkStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("14"))
	subStyle     = lipgloss.NewStyle().Faint(true)
	dividerStyle = lipgloss.NewStyle().Faint(true)
	levelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	champion     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Underline(true)
)

// Monitor renders engine events as a styled play-by-play on a writer. It
// implements game.EventSink and is safe to combine with the websocket hub
// through game.MultiSink.
type Monitor struct {
	w io.Writer
}

// NewMonitor creates a console monitor, defaulting to stdout
func NewMonitor(w io.Writer) *Monitor {
	if w == nil {
		w = os.Stdout
	}
	return &Monitor{w: w}
}

// Publish renders one event
func (m *Monitor) Publish(event game.GameEvent) {
	switch ev := event.(type) {
	case tournament.StartedEvent:
		fmt.Fprintln(m.w, headerStyle.Render(fmt.Sprintf("=== TOURNAMENT %s ===", shortID(ev.TournamentID))))
		fmt.Fprintf(m.w, "%d agents, %d chips each: %s\n", len(ev.Agents), ev.StartChips, strings.Join(ev.Agents, ", "))

	case tournament.LevelUpEvent:
		line := fmt.Sprintf("BLINDS UP: level %d, %d/%d", ev.Level, ev.SmallBlind, ev.BigBlind)
		if ev.Ante > 0 {
			line += fmt.Sprintf(" ante %d", ev.Ante)
		}
		fmt.Fprintln(m.w, levelStyle.Render(line))

	case game.HandStartEvent:
		fmt.Fprintln(m.w, dividerStyle.Render(strings.Repeat("─", 40)))
		fmt.Fprintln(m.w, headerStyle.Render(fmt.Sprintf("Hand #%d  blinds %d/%d", ev.HandNumber, ev.SmallBlind, ev.BigBlind)))
		for _, s := range ev.Seats {
			marker := "  "
			if s.Seat == ev.Button {
				marker = "D "
			}
			fmt.Fprintf(m.w, " %s%s: %d\n", marker, s.AgentID, s.Chips)
		}

	case game.StreetDealEvent:
		fmt.Fprintf(m.w, "%s %s\n", ev.Street, boardStyle.Render("["+strings.Join(ev.Board, " ")+"]"))

	case game.ActionEvent:
		line := fmt.Sprintf(" %s %s", ev.AgentID, ev.Action)
		if ev.Amount > 0 {
			line += fmt.Sprintf(" %d", ev.Amount)
		}
		if ev.Substituted {
			line += subStyle.Render(" (substituted)")
		}
		fmt.Fprintln(m.w, line)
		if ev.TrashTalk != "" {
			fmt.Fprintln(m.w, talkStyle.Render(fmt.Sprintf("   %s: %q", ev.AgentID, ev.TrashTalk)))
		}

	case game.HandEndEvent:
		fmt.Fprintln(m.w, winStyle.Render(" "+ev.Summary))

	case tournament.EliminationEvent:
		fmt.Fprintln(m.w, bustStyle.Render(fmt.Sprintf(" %s ELIMINATED in place %d", ev.AgentID, ev.Place)))

	case tournament.CompletedEvent:
		fmt.Fprintln(m.w, dividerStyle.Render(strings.Repeat("═", 40)))
		fmt.Fprintln(m.w, champion.Render(fmt.Sprintf("WINNER: %s (%d hands)", ev.Winner, ev.TotalHands)))
		for _, s := range ev.Standings {
			fmt.Fprintf(m.w, " %d. %s\n", s.Place, s.AgentID)
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
