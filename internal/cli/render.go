package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/epanalyzer/internal/ui"
	"github.com/agbru/epanalyzer/internal/view"
)

const ruleWidth = 60

// DisplayViewModel writes the error region or the result of vm. A loading
// view model prints nothing; the ProgressReporter owns that state.
func DisplayViewModel(vm view.ViewModel, out io.Writer) {
	if vm.Error != nil {
		DisplayError(*vm.Error, out)
		return
	}
	if vm.Summary == nil {
		return
	}
	DisplaySummary(*vm.Summary, out)
	for _, section := range vm.Countries {
		DisplayCountry(section, out)
	}
	DisplaySources(vm, out)
}

// DisplayError writes the error region. Validation notices use the warning
// color, failures the error color.
func DisplayError(e view.ErrorBox, out io.Writer) {
	color := ui.ColorError()
	if e.Kind == view.ErrorValidation {
		color = ui.ColorNotice()
	}
	fmt.Fprintf(out, "%s%s %s%s\n", color, e.Icon, e.Message, ui.ColorReset())
}

// DisplaySummary writes the overall result header.
func DisplaySummary(s view.Summary, out io.Writer) {
	fmt.Fprintf(out, "\n%s%sAnalysis Summary%s\n", ui.ColorBold(), ui.ColorHeading(), ui.ColorReset())
	rule(out)
	if s.Timestamp != "" {
		field(out, "Generated", s.Timestamp)
	}
	field(out, "Countries analyzed", s.Countries)
	field(out, "Projects", fmt.Sprintf("%d", s.ProjectCount))
	if len(s.Developers) > 0 {
		fmt.Fprintf(out, "%sMajor developers:%s\n", ui.ColorBold(), ui.ColorReset())
		bullets(out, "  ", s.Developers)
	}
	if s.MostPromising != nil {
		fmt.Fprintf(out, "%sMost promising projects:%s\n", ui.ColorBold(), ui.ColorReset())
		bullets(out, "  ", s.MostPromising)
	}
}

// DisplayCountry writes one country heading and its project cards.
func DisplayCountry(section view.CountrySection, out io.Writer) {
	fmt.Fprintf(out, "\n%s%s%s\n", ui.ColorBold()+ui.ColorCountry(), section.Heading, ui.ColorReset())
	rule(out)
	for i, card := range section.Projects {
		if i > 0 {
			fmt.Fprintln(out)
		}
		DisplayProjectCard(card, out)
	}
}

// DisplayProjectCard writes one project. Empty fields are skipped.
func DisplayProjectCard(c view.ProjectCard, out io.Writer) {
	fmt.Fprintf(out, "%s%s%s\n", ui.ColorBold()+ui.ColorProject(), c.Name, ui.ColorReset())
	for _, kv := range [][2]string{
		{"Location", c.Location},
		{"Capacity", c.Capacity},
		{"Investment", c.Investment},
		{"Developer", c.Developer},
		{"Timeline", c.Timeline},
		{"Status", c.Status},
		{"Category", c.Category},
		{"Date", c.Date},
		{"Source", c.Source},
	} {
		if kv[1] != "" {
			fmt.Fprintf(out, "  %s%-11s%s %s\n", ui.ColorLabel(), kv[0]+":", ui.ColorReset(), kv[1])
		}
	}
	fmt.Fprintf(out, "  %sKey points:%s\n", ui.ColorLabel(), ui.ColorReset())
	bullets(out, "    ", c.KeyPoints)
	if c.Partners != nil {
		fmt.Fprintf(out, "  %sPartners:%s %s\n", ui.ColorLabel(), ui.ColorReset(), strings.Join(c.Partners, ", "))
	}
	if c.ReadMore != nil {
		fmt.Fprintf(out, "  %s%s:%s %s%s%s\n", ui.ColorLabel(), c.ReadMore.Label, ui.ColorReset(),
			ui.ColorUnderline()+ui.ColorLink(), c.ReadMore.URL, ui.ColorReset())
	}
}

// DisplaySources writes the consulted sources grouped by country.
func DisplaySources(vm view.ViewModel, out io.Writer) {
	if len(vm.SearchCountries) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%sSources%s\n", ui.ColorBold(), ui.ColorReset())
	rule(out)
	for _, country := range vm.SearchCountries {
		fmt.Fprintf(out, "%s%s%s\n", ui.ColorCountry(), country, ui.ColorReset())
		for _, r := range vm.SearchResults[country] {
			line := r.URL
			if r.Description != "" {
				line = r.Description + " - " + r.URL
			}
			fmt.Fprintf(out, "  • %s\n", line)
		}
	}
}

func field(out io.Writer, label, value string) {
	fmt.Fprintf(out, "%s%s:%s %s\n", ui.ColorBold(), label, ui.ColorReset(), value)
}

func bullets(out io.Writer, indent string, items []string) {
	for _, item := range items {
		fmt.Fprintf(out, "%s• %s\n", indent, item)
	}
}

func rule(out io.Writer) {
	fmt.Fprintf(out, "%s%s%s\n", ui.ColorMuted(), strings.Repeat("─", ruleWidth), ui.ColorReset())
}
