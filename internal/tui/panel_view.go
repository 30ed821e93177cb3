package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/finboard/cachectl/internal/admin"
)

// View renders the current view (Bubble Tea interface).
func (m PanelModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loadingState)
	case ViewStateConfirm:
		return m.renderConfirmView()
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

// renderListView renders the panel home screen: banner, summary, one card
// per cache, and the help bar.
func (m PanelModel) renderListView() string {
	var sections []string

	sections = append(sections, HeaderStyle.Render("CACHE ADMINISTRATION"))

	if banner := m.renderOutcomeBanner(); banner != "" {
		sections = append(sections, banner)
	}

	sections = append(sections, m.renderSummaryRow())

	if len(m.keys) == 0 {
		sections = append(sections, SubtleStyle.Render(m.emptyListNotice()))
	} else {
		now := time.Now()
		for i, key := range m.keys {
			sections = append(sections, m.renderCard(key, i == m.cursor, now))
		}
	}

	sections = append(sections, m.renderStatusBar())

	if m.showFilter {
		sections = append(sections, LabelStyle.Render("Filter: ")+m.textInput.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderOutcomeBanner renders the transient success or error notice.
func (m PanelModel) renderOutcomeBanner() string {
	width := m.width - borderPadding
	switch m.outcome.Kind {
	case admin.OutcomeSuccess:
		return OKStyle.Width(width).Render(m.outcome.Text)
	case admin.OutcomeFailure:
		return CriticalStyle.Width(width).Render(m.outcome.Text)
	default:
		return ""
	}
}

// renderSummaryRow shows the fleet totals and the refresh-all control with
// its in-flight variant.
func (m PanelModel) renderSummaryRow() string {
	totals := ValueStyle.Render(fmt.Sprintf("%d caches · %s items",
		len(m.snapshot), admin.FormatCount(m.snapshot.TotalCount())))

	allState := SubtleStyle.Render("[a] refresh all")
	if m.ops.Get(admin.AllKey) == admin.Refreshing {
		allState = WarningStyle.Render("Refreshing all caches...")
	}

	return totals + "    " + allState
}

// emptyListNotice explains why no cards are shown.
func (m PanelModel) emptyListNotice() string {
	if m.textInput.Value() != "" {
		return fmt.Sprintf("No caches match %q.", m.textInput.Value())
	}
	return "No caches reported."
}

// renderCard renders one cache's status card.
func (m PanelModel) renderCard(key string, selected bool, now time.Time) string {
	entry := m.snapshot[key]
	var content strings.Builder

	title := severityIcon(admin.SeverityFor(entry.Count)) + " " + HeaderStyle.Render(admin.DisplayLabel(key))
	count := ValueStyle.Render(admin.FormatCount(entry.Count) + " items")
	heading := title + "  " + count
	if entry.Stale(now) {
		heading += "  " + WarningStyle.Render("stale")
	}
	content.WriteString(heading)
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Last updated: "))
	content.WriteString(ValueStyle.Render(admin.FormatTimestamp(entry.LastUpdated)))
	if entry.LastUpdated != nil && !entry.LastUpdated.IsZero() {
		content.WriteString(SubtleStyle.Render(" (" + admin.FormatAge(entry.LastUpdated, now) + ")"))
	}
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Cache duration: "))
	content.WriteString(ValueStyle.Render(admin.FormatDuration(entry.CacheDurationMinutes)))
	content.WriteString("\n")

	if entry.CleanupRunAt != nil {
		content.WriteString(LabelStyle.Render("Last cleanup: "))
		content.WriteString(ValueStyle.Render(admin.FormatTimestamp(entry.CleanupRunAt)))
		if entry.RemovedCount != nil {
			content.WriteString(SubtleStyle.Render(fmt.Sprintf(" removed %s", admin.FormatCount(*entry.RemovedCount))))
		}
		content.WriteString("\n")
	}

	content.WriteString(m.renderCardActions(key))

	box := BoxStyle
	if selected {
		box = SelectedBoxStyle
	}
	return box.Width(m.width - borderPadding).Render(content.String())
}

// renderCardActions renders the per-card buttons or their in-flight
// variants. While an operation is in flight the card offers no actions,
// which is the panel's form of button disablement.
func (m PanelModel) renderCardActions(key string) string {
	switch m.ops.Get(key) {
	case admin.Refreshing:
		return WarningStyle.Render("Refreshing...")
	case admin.Clearing:
		return WarningStyle.Render("Clearing...")
	default:
		return SubtleStyle.Render("[r] refresh  [c] clear")
	}
}

// renderStatusBar displays the key help and filter status.
func (m PanelModel) renderStatusBar() string {
	filterStatus := ""
	if m.textInput.Value() != "" {
		filterStatus = fmt.Sprintf("Filtered: %d/%d | ", len(m.keys), len(m.snapshot))
	}

	help := "Press 'r' to refresh, 'c' to clear, 'a' to refresh all, 'g' to reload, '/' to filter, 'q' to quit"
	return SubtleStyle.Render(filterStatus + help)
}

// renderConfirmView renders the modal confirmation shown before a clear.
func (m PanelModel) renderConfirmView() string {
	var content strings.Builder

	content.WriteString(CriticalStyle.Render("CLEAR CACHE"))
	content.WriteString("\n\n")

	if entry, ok := m.snapshot[m.confirmKey]; ok {
		content.WriteString(fmt.Sprintf("This permanently removes %s items from the %s cache.\n",
			admin.FormatCount(entry.Count), m.confirmKey))
	} else {
		content.WriteString(fmt.Sprintf("This permanently clears the %s cache.\n", m.confirmKey))
	}
	content.WriteString("\n")
	content.WriteString(OKStyle.Render("[y]") + " clear    " + SubtleStyle.Render("any other key keeps it"))

	dialog := BoxStyle.Width(m.width - borderPadding).Render(content.String())
	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("CACHE ADMINISTRATION"),
		dialog,
	)
}

// severityIcon maps a severity class to its colored icon.
func severityIcon(s admin.Severity) string {
	switch s {
	case admin.SeverityHealthy:
		return OKStyle.Render(IconPositive)
	case admin.SeveritySparse:
		return WarningStyle.Render(IconWarning)
	default:
		return CriticalStyle.Render(IconDestructive)
	}
}
