package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumetv/lume/internal/catalog"
	"github.com/lumetv/lume/internal/domain"
	"github.com/lumetv/lume/internal/tui/styles"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := styles.HeaderStyle.Render(" lume ")

	crumbs := []string{"Categories"}
	if m.level >= levelContent {
		crumbs = append(crumbs, m.category)
	}
	if m.level >= levelSeasons && m.currentSeries != nil {
		crumbs = append(crumbs, m.currentSeries.Title)
	}
	if m.level >= levelEpisodes {
		if s := m.currentSeason(); s != nil {
			crumbs = append(crumbs, s.DisplayTitle())
		}
	}
	path := styles.SubtitleStyle.Render(strings.Join(crumbs, " › "))

	right := ""
	if m.state.Status == catalog.StatusLoading {
		right = m.spinner.View() + styles.DimStyle.Render(" fetching")
	} else if m.state.FromCache && m.level >= levelContent {
		right = styles.BadgeStyle.Render("cached")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", path)
	if right != "" {
		gap := m.width - lipgloss.Width(line) - lipgloss.Width(right) - 1
		if gap > 0 {
			line += strings.Repeat(" ", gap) + right
		}
	}
	return line
}

func (m *Model) renderBody() string {
	if m.level >= levelContent && m.state.Status == catalog.StatusError && m.state.Err != nil {
		return m.renderError()
	}

	rows := m.renderRows()
	if len(rows) == 0 {
		return styles.DimStyle.Render("  Nothing here.")
	}

	visible := m.bodyHeight()
	start := 0
	if c := m.cursor(); c >= visible {
		start = c - visible + 1
	}
	end := start + visible
	if end > len(rows) {
		end = len(rows)
	}
	return strings.Join(rows[start:end], "\n")
}

func (m *Model) renderRows() []string {
	switch m.level {
	case levelCategories:
		rows := make([]string, len(m.categories))
		for i, cat := range m.categories {
			rows[i] = m.renderRow(titleCase(cat), "", i == m.catCursor)
		}
		return rows

	case levelContent:
		if m.category == domain.CategorySeries && m.organized != nil {
			return m.renderSeriesRows()
		}
		items := m.visibleContent()
		rows := make([]string, len(items))
		for i, item := range items {
			rows[i] = m.renderRow(item.Title, item.FormattedDuration(), i == m.itemCursor)
		}
		return rows

	case levelSeasons:
		if m.currentSeries == nil {
			return nil
		}
		rows := make([]string, len(m.currentSeries.Seasons))
		for i, s := range m.currentSeries.Seasons {
			meta := fmt.Sprintf("%d episodes", len(s.Episodes))
			if s.Inferred {
				meta += " · inferred"
			}
			rows[i] = m.renderRow(s.DisplayTitle(), meta, i == m.seasonCursor)
		}
		return rows

	case levelEpisodes:
		season := m.currentSeason()
		if season == nil {
			return nil
		}
		rows := make([]string, len(season.Episodes))
		for i, ep := range season.Episodes {
			label := fmt.Sprintf("E%02d  %s", ep.EpisodeNumber, ep.Title)
			rows[i] = m.renderRow(label, "", i == m.episodeCursor)
		}
		return rows
	}
	return nil
}

func (m *Model) renderSeriesRows() []string {
	keys := m.visibleSeriesKeys()
	rows := make([]string, 0, len(keys)+1)
	for i, k := range keys {
		info := m.organized.Series[k]
		meta := fmt.Sprintf("%d seasons · %d episodes", len(info.Seasons), info.TotalEpisodes)
		rows = append(rows, m.renderRow(info.Title, meta, i == m.itemCursor))
	}
	if n := len(m.organized.Unclassified); n > 0 && m.filterQuery == "" {
		rows = append(rows, styles.DimStyle.Render(fmt.Sprintf("  + %d unclassified items", n)))
	}
	return rows
}

func (m *Model) renderRow(title, meta string, selected bool) string {
	width := m.width - 4
	text := styles.Truncate(title, width-lipgloss.Width(meta)-2)
	if meta != "" {
		gap := width - lipgloss.Width(text) - lipgloss.Width(meta)
		if gap > 0 {
			text += strings.Repeat(" ", gap)
		}
		text += styles.DimStyle.Render(meta)
	}
	if selected {
		return styles.SelectedItemStyle.Render(text)
	}
	return styles.NormalItemStyle.Render(text)
}

func (m *Model) renderError() string {
	err := m.state.Err
	lines := []string{
		styles.ErrorStyle.Render("  Fetch failed: " + err.Message),
		styles.DimStyle.Render("  category: " + err.Category.String()),
	}
	if err.Retryable {
		lines = append(lines, styles.DimStyle.Render("  press r to retry"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	if m.filtering {
		return m.filterInput.View()
	}
	if m.statusText != "" {
		if m.statusIsErr {
			return styles.ErrorStyle.Render(m.statusText)
		}
		return styles.SuccessStyle.Render(m.statusText)
	}

	help := []string{helpEntry("j/k", "move"), helpEntry("enter", "open")}
	if m.level == levelContent {
		help = append(help, helpEntry("/", "filter"), helpEntry("r", "refresh"))
		if m.state.HasMore {
			help = append(help, helpEntry("m", "more"))
		}
	}
	if m.filterQuery != "" {
		help = append(help, styles.AccentStyle.Render("filter: "+m.filterQuery))
	}
	help = append(help, helpEntry("q", "quit"))
	return strings.Join(help, "  ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func helpEntry(k, desc string) string {
	return styles.HelpKeyStyle.Render(k) + " " + styles.HelpDescStyle.Render(desc)
}

// bodyHeight returns rows available for the list.
func (m *Model) bodyHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}
