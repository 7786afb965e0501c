package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	reportBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func confidenceStyle(c constants.Confidence) lipgloss.Style {
	switch c {
	case constants.ConfidenceHigh:
		return successStyle
	case constants.ConfidenceMedium:
		return warnStyle
	default:
		return failStyle
	}
}

// RenderFeasibility formats an evaluator result as a boxed report.
func RenderFeasibility(title string, r models.FeasibilityResult) string {
	var b strings.Builder

	verdict := "feasible"
	if !r.Feasible {
		verdict = "not feasible"
	} else if r.Overridden {
		verdict = "feasible (overridden)"
	}
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("Feasibility: "+title))
	fmt.Fprintf(&b, "Verdict:    %s\n", confidenceStyle(r.Confidence).Render(verdict))
	fmt.Fprintf(&b, "Confidence: %s\n", confidenceStyle(r.Confidence).Render(string(r.Confidence)))

	m := r.Metrics
	fmt.Fprintf(&b, "Active habits: %d   Weekly load: %d min\n", m.CurrentHabitCount, m.EstimatedTimeLoad)
	if m.AvgCompletionRate != nil {
		fmt.Fprintf(&b, "Avg completion: %.0f%%   Avg streak: %.1f days\n", *m.AvgCompletionRate*100, *m.AvgStreakDuration)
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n" + titleStyle.Render("Warnings") + "\n")
		for _, w := range r.Warnings {
			b.WriteString(warnStyle.Render("  ! "+w) + "\n")
		}
	}
	if len(r.Suggestions) > 0 {
		b.WriteString("\n" + titleStyle.Render("Suggestions") + "\n")
		for _, s := range r.Suggestions {
			b.WriteString("  - " + s + "\n")
		}
	}
	return reportBox.Render(strings.TrimRight(b.String(), "\n"))
}

// HabitLine is the one-line summary used by list commands.
func HabitLine(h models.Habit) string {
	mark := "[ ]"
	switch h.Status {
	case constants.StatusComplete:
		mark = successStyle.Render("[x]")
	case constants.StatusPaused:
		mark = mutedStyle.Render("[-]")
	}
	line := fmt.Sprintf("%s %s %s  %d/%d  streak %d  %s",
		mark, h.Icon, h.Title, h.CompletedToday, h.TargetCount, h.Streak,
		mutedStyle.Render(models.FormatWeekdays(h.RecurrenceDays)))
	if h.ReminderTime != "" {
		line += mutedStyle.Render(" @ " + h.ReminderTime)
	}
	if h.IsDeleted() {
		line += failStyle.Render(" [DELETED]")
	}
	return line + mutedStyle.Render("  "+shortID(h.ID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Interactive reports whether stdin is a terminal that can answer prompts.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// Confirm asks a yes/no question. It fails when stdin is not a terminal.
func Confirm(title, description string) (bool, error) {
	if !Interactive() {
		return false, fmt.Errorf("cannot prompt for confirmation: stdin is not a terminal")
	}
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return ok, nil
}
