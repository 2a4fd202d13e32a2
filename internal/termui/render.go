// Package termui renders tables and dialogs for the glass CLI.
package termui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aquarist-labs/glass/pkg/dialog"
)

// TerminalWidth is the width percent-based dialog widths are relative to.
const TerminalWidth = 100

const passwordMask = "********"

var (
	primaryColor = lipgloss.Color("#7571f9")
	mutedColor   = lipgloss.Color("#6c757d")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)

// RenderTable draws rows under headers with rounded borders.
func RenderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(primaryColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)

	for _, row := range rows {
		t.Row(row...)
	}
	return t.Render()
}

// RenderForm draws form as a bordered box. Password fields are masked
// unless reveal is set.
func RenderForm(form dialog.Form, reveal bool) string {
	var lines []string

	lines = append(lines, titleStyle.Render(form.Title))
	if form.Subtitle != "" {
		lines = append(lines, subtitleStyle.Render(form.Subtitle))
	}
	lines = append(lines, "")

	for _, field := range form.Fields {
		lines = append(lines, renderField(field, reveal)...)
	}

	buttons := []string{}
	if form.OKButtonVisible {
		buttons = append(buttons, "[ OK ]")
	}
	if form.CancelButtonText != "" {
		buttons = append(buttons, "[ "+form.CancelButtonText+" ]")
	}
	if len(buttons) > 0 {
		lines = append(lines, "", mutedStyle.Render(strings.Join(buttons, " ")))
	}

	body := strings.Join(lines, "\n")

	box := boxStyle
	// Never narrower than the content so values are not wrapped
	if w := formWidth(form.Width, TerminalWidth); w > lipgloss.Width(body)+box.GetHorizontalPadding() {
		box = box.Width(w)
	}
	return box.Render(body)
}

func renderField(field dialog.Field, reveal bool) []string {
	value := field.Value
	switch field.Type {
	case dialog.FieldTypePassword:
		if !reveal {
			value = passwordMask
		}
	case dialog.FieldTypeText:
	default:
		// Unknown field types are shown as text
	}

	var lines []string
	if field.Label != "" {
		lines = append(lines, labelStyle.Render(field.Label))
	}
	line := value
	if field.HasCopyToClipboardButton {
		line += "  " + mutedStyle.Render("(copy)")
	}
	return append(lines, line, "")
}

// formWidth converts "60%" or "40" into columns out of total.
func formWidth(width string, total int) int {
	width = strings.TrimSpace(width)
	if width == "" {
		return 0
	}
	if pct, ok := strings.CutSuffix(width, "%"); ok {
		n, err := strconv.Atoi(pct)
		if err != nil {
			return 0
		}
		return total * n / 100
	}
	n, err := strconv.Atoi(width)
	if err != nil {
		return 0
	}
	return n
}
