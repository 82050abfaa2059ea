package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"mahami/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	lateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	priorityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	doneStyle = lipgloss.NewStyle()
	lateStyle = lipgloss.NewStyle()
	priorityStyles = map[string]lipgloss.Style{}
	categoryStyle = lipgloss.NewStyle()
}

// TaskTable renders tasks as aligned columns. Empty lists print a notice to errw.
func TaskTable(w, errw io.Writer, tasks []task.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(errw, "No tasks found.")
		return
	}

	const pad = 2
	const maxTitle = 48
	idW, prioW, titleW, catW, dueW := 10, 10, 7, 10, 12
	for _, t := range tasks {
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(lipgloss.Width(t.Title)+pad, maxTitle+pad))
		catW = max(catW, lipgloss.Width(t.Category)+pad)
	}

	header := fmt.Sprintf("%-*s %-4s %-*s %-*s %-*s %-*s %s",
		idW, "ID", "DONE", prioW, "PRIORITY", titleW, "TITLE", catW, "CATEGORY", dueW, "DUE", "REMINDER")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = doneStyle.Render("[x]")
		}
		row := fmt.Sprintf("%s %s %s %s %s %s %s",
			padRight(t.ShortID(), idW),
			padRight(check, 4),
			padRight(styledValue(string(t.Priority), priorityStyles), prioW),
			padRight(truncate(t.Title, maxTitle), titleW),
			padRight(stringOrDash(t.Category, categoryStyle), catW),
			padRight(dueDisplay(t, now), dueW),
			reminderDisplay(t))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskCompact prints one line per task.
func TaskCompact(w, errw io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(errw, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, compactLine(t))
	}
}

func compactLine(t task.Task) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	line := t.ShortID() + " " + check + " (" + string(t.Priority) + ") " + t.Title
	if t.Category != "" {
		line += " #" + t.Category
	}
	if t.DueDate != "" {
		line += " due:" + t.DueDate
	}
	if t.Reminder != nil {
		line += " remind:" + t.Reminder.Local().Format(task.DateTimeLayout)
	}
	return line
}

func TaskDetail(w io.Writer, t task.Task, now time.Time) {
	titleLine := t.Title
	if titleLine == "" {
		titleLine = "(untitled)"
	}
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", max(lipgloss.Width(titleLine), 8)))

	status := "active"
	if t.Completed {
		status = doneStyle.Render("completed")
	}
	printField(w, "ID", t.ID)
	printField(w, "Status", status)
	printField(w, "Priority", styledValue(string(t.Priority), priorityStyles))
	printField(w, "Category", stringOrDash(t.Category, categoryStyle))
	printField(w, "Due", dueDisplay(t, now))
	printField(w, "Reminder", reminderDisplay(t))
	printField(w, "Created", t.CreatedAt.Local().Format(task.DateTimeLayout))
	if t.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Description)
	}
}

func StatsTable(w io.Writer, s task.Stats) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render("Statistics"))
	printField(w, "Total", fmt.Sprint(s.Total))
	printField(w, "Completed", fmt.Sprint(s.Completed))
	printField(w, "Active", fmt.Sprint(s.Active))
	printField(w, "Overdue", fmt.Sprint(s.Overdue))
	printField(w, "Done", fmt.Sprintf("%d%% %s", s.CompletionRate, ProgressBar(s.CompletionRate, 20)))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s", "PRIORITY", "COUNT")))
	for _, p := range task.Priorities {
		fmt.Fprintf(w, "%s %6d\n", padRight(styledValue(string(p), priorityStyles), 16), s.ByPriority[p])
	}

	if len(s.ByCategory) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s", "CATEGORY", "COUNT")))
		cats := make([]string, 0, len(s.ByCategory))
		for c := range s.ByCategory {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Fprintf(w, "%s %6d\n", padRight(stringOrDash(c, categoryStyle), 16), s.ByCategory[c])
		}
	}
}

// ProgressBar renders pct (0..100) as a fixed-width bar.
func ProgressBar(pct, width int) string {
	pct = min(max(pct, 0), 100)
	filled := pct * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func dueDisplay(t task.Task, now time.Time) string {
	if t.DueDate == "" {
		return dimStyle.Render("--")
	}
	if t.Overdue(now) {
		return lateStyle.Render(t.DueDate + "!")
	}
	return t.DueDate
}

func reminderDisplay(t task.Task) string {
	if t.Reminder == nil {
		return dimStyle.Render("--")
	}
	return t.Reminder.Local().Format(task.DateTimeLayout)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// padRight pads s to a visible width, ignoring ANSI escapes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stringOrDash(s string, st lipgloss.Style) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return st.Render(s)
}

func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
