package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imfreedom/urlmap/internal/urlmap"
)

// RenderTable returns the namespace table as a styled two-column listing
func RenderTable(table *urlmap.Table, width int) string {
	width = clampWidth(width, nil)

	nameWidth := 0
	for _, name := range table.Namespaces() {
		if w := lipgloss.Width(name); w > nameWidth {
			nameWidth = w
		}
	}

	var lines []string
	lines = append(lines, TitleStyle.Render(fmt.Sprintf("Documentation namespaces (%d)", table.Len())))
	lines = append(lines, RenderHorizontalDivider(width-4, "─"))

	nameCol := NamespaceStyle.Width(nameWidth + 2)
	for _, e := range table.Entries() {
		lines = append(lines, nameCol.Render(e.Namespace)+URLStyle.Render(e.BaseURL))
	}

	return BoxStyle(width, PrimaryColor).Render(strings.Join(lines, "\n"))
}
