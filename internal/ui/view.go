package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mahami/internal/config"
	"mahami/internal/output"
	"mahami/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Mahami"))
	b.WriteString("\n\n")
	b.WriteString(panelStyle.Render(m.renderStats()))
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		if m.store.Len() == 0 {
			b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
		} else {
			b.WriteString("No tasks match the current filter.")
		}
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n---\n")

	switch m.mode {
	case modeForm:
		header := "New task"
		if m.form.editing() {
			header = "Edit task"
		}
		b.WriteString(header)
		b.WriteString("\n\n")
		b.WriteString(m.renderFormBox())
		b.WriteString("\n")
		b.WriteString("Field: " + m.form.currentLabel())
		if m.form.hasChoices() {
			b.WriteString(dimStyle.Render(fmt.Sprintf(" (%s/%s to cycle)", m.cfg.Keys.OptionNext, m.cfg.Keys.OptionPrevious)))
		}
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case modeSearch, modeRemind:
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.renderDetailPanel())
	}

	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s remind • %s clear reminder • %s search • %s category • %s status • %s sort • %s reset • %s quit",
		k.Up, k.Down, k.Add, k.Edit, keyName(k.Toggle), k.Delete, k.Remind, k.ClearReminder,
		k.Search, k.CycleCategory, k.CycleStatus, k.CycleSort, k.ClearFilters, k.Quit)
}

func (m Model) renderStats() string {
	s := m.store.Stats()
	return fmt.Sprintf("Total %d • Completed %d • Active %d • Overdue %s\n%s %d%%",
		s.Total, s.Completed, s.Active, overdueCount(s.Overdue),
		output.ProgressBar(s.CompletionRate, 30), s.CompletionRate)
}

func overdueCount(n int) string {
	if n == 0 {
		return "0"
	}
	return overdueStyle.Render(fmt.Sprint(n))
}

func (m Model) renderFilterLine() string {
	parts := []string{
		"status:" + string(m.filter.Status),
		"sort:" + string(m.sortKey),
	}
	if m.filter.Category != "" {
		parts = append(parts, "category:"+m.filter.Category)
	}
	if m.filter.Query != "" {
		parts = append(parts, fmt.Sprintf("search:%q", m.filter.Query))
	}
	return dimStyle.Render(fmt.Sprintf("%d shown • ", len(m.tasks))) + strings.Join(parts, "  ")
}

func (m Model) renderTaskList() string {
	now := m.store.Now()
	var b strings.Builder
	for i, t := range m.tasks {
		cursor := " "
		if m.cursor == i && m.mode != modeForm {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		title := t.Title
		if t.Completed {
			checkbox = "[x]"
			title = doneStyle.Render(title)
		}

		body := fmt.Sprintf("%s %s %s %s", cursor, checkbox, priorityTag(t.Priority), title)
		if t.Category != "" {
			body += " " + categoryStyle.Render("#"+t.Category)
		}
		if t.DueDate != "" {
			due := "due " + t.DueDate
			if t.Overdue(now) {
				due = overdueStyle.Render(due + " overdue")
			} else {
				due = dimStyle.Render(due)
			}
			body += " " + due
		}
		if t.Reminder != nil {
			body += " 🔔"
		}

		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func priorityTag(p task.Priority) string {
	tag := fmt.Sprintf("%-6s", p)
	if st, ok := priorityStyles[p]; ok {
		return st.Render(tag)
	}
	return tag
}

func (m Model) renderFormBox() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	for i, name := range formLabels() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-22s : %s\n", prefix, name, emptyPlaceholder(m.form.values[i])))
	}
	return b.String()
}

func (m Model) renderDetailPanel() string {
	t, ok := m.current()
	if !ok {
		return "No task selected"
	}
	reminder := "(none)"
	if t.Reminder != nil {
		reminder = t.Reminder.Local().Format(task.DateTimeLayout)
	}
	var b strings.Builder
	b.WriteString("Details\n")
	b.WriteString(fmt.Sprintf("Title       : %s\n", t.Title))
	b.WriteString(fmt.Sprintf("Description : %s\n", emptyPlaceholder(t.Description)))
	b.WriteString(fmt.Sprintf("Status      : %s\n", humanDone(t.Completed)))
	b.WriteString(fmt.Sprintf("Priority    : %s\n", t.Priority))
	b.WriteString(fmt.Sprintf("Category    : %s\n", emptyPlaceholder(t.Category)))
	b.WriteString(fmt.Sprintf("Due         : %s\n", emptyPlaceholder(t.DueDate)))
	b.WriteString(fmt.Sprintf("Reminder    : %s\n", reminder))
	b.WriteString(fmt.Sprintf("Created     : %s\n", t.CreatedAt.Local().Format(task.DateTimeLayout)))
	return b.String()
}
