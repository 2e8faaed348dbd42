package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/epanalyzer/internal/view"
)

// Placeholder texts for the results panel.
const (
	emptyResults   = "Choose a region and a technology, then press Enter."
	loadingResults = "Waiting for the analysis to finish..."
)

// RenderResults lays out the summary, the project cards and the sources of
// vm, wrapped to width.
func RenderResults(vm view.ViewModel, width int) string {
	if vm.Summary == nil {
		if vm.Loading {
			return dimStyle.Render(loadingResults)
		}
		return dimStyle.Render(emptyResults)
	}
	wrap := lipgloss.NewStyle().Width(max(width, 20))

	var b strings.Builder
	sum := vm.Summary
	b.WriteString(sectionStyle.Render("Analysis Summary") + "\n")
	b.WriteString(field("Generated", sum.Timestamp))
	b.WriteString(field("Countries", sum.Countries))
	b.WriteString(field("Projects", strconv.Itoa(sum.ProjectCount)))
	if len(sum.Developers) > 0 {
		b.WriteString(fieldLabelStyle.Render("Major developers:") + "\n")
		b.WriteString(wrap.Render(bullets(sum.Developers)) + "\n")
	}
	if sum.MostPromising != nil {
		b.WriteString(fieldLabelStyle.Render("Most promising:") + "\n")
		b.WriteString(wrap.Render(bullets(sum.MostPromising)) + "\n")
	}

	for _, c := range vm.Countries {
		b.WriteString("\n" + sectionStyle.Render(c.Heading) + "\n")
		for _, p := range c.Projects {
			b.WriteString(wrap.Render(renderCard(p)) + "\n")
		}
	}

	if len(vm.SearchCountries) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Sources") + "\n")
		for _, country := range vm.SearchCountries {
			b.WriteString(fieldLabelStyle.Render(country) + "\n")
			for _, r := range vm.SearchResults[country] {
				b.WriteString(wrap.Render("  "+r.Description+" "+linkStyle.Render(r.URL)) + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCard(p view.ProjectCard) string {
	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(p.Name) + "\n")
	b.WriteString(field("Location", p.Location))
	b.WriteString(field("Capacity", p.Capacity))
	b.WriteString(field("Investment", p.Investment))
	b.WriteString(field("Developer", p.Developer))
	b.WriteString(field("Timeline", p.Timeline))
	b.WriteString(field("Status", p.Status))
	b.WriteString(field("Category", p.Category))
	b.WriteString(field("Date", p.Date))
	b.WriteString(field("Source", p.Source))
	b.WriteString(fieldLabelStyle.Render("Key points:") + "\n")
	b.WriteString(bullets(p.KeyPoints) + "\n")
	if p.Partners != nil {
		b.WriteString(field("Partners", strings.Join(p.Partners, ", ")))
	}
	if p.ReadMore != nil {
		b.WriteString(fieldLabelStyle.Render(p.ReadMore.Label+": ") + linkStyle.Render(p.ReadMore.URL) + "\n")
	}
	return b.String()
}

func field(label, value string) string {
	return fieldLabelStyle.Render(label+": ") + value + "\n"
}

func bullets(items []string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString("  • " + it + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
