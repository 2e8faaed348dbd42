package view

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agbru/epanalyzer/internal/analysis"
	"github.com/agbru/epanalyzer/internal/orchestration"
	"github.com/agbru/epanalyzer/internal/progress"
)

// Fixed labels.
const (
	ButtonIdle       = "Analyze Projects"
	ButtonLoading    = "Processing..."
	FinalizingLabel  = "Finalizing Analysis"
	NoCountries      = "No countries analyzed"
	NoKeyPoints      = "No key points available."
	ReadMoreLabel    = "Read More"
	analyzingPattern = "Analyzing "
)

// ErrorKind distinguishes a failed job from a validation notice.
type ErrorKind int

const (
	ErrorFailure ErrorKind = iota + 1
	ErrorValidation
)

// ViewModel is everything a renderer needs for one frame.
type ViewModel struct {
	Phase   orchestration.Phase
	Loading bool
	Button  Button
	// Status is set while loading once a progress event has arrived.
	Status *StatusLine
	// Error is set when a failure or notice must be shown. It replaces Status.
	Error   *ErrorBox
	Summary *Summary
	// Countries are sorted by name.
	Countries []CountrySection
	// SearchResults groups sources by country; SearchCountries lists the keys sorted.
	SearchResults   map[string][]analysis.SearchResult
	SearchCountries []string
}

// Button is the trigger control.
type Button struct {
	Label    string
	Disabled bool
}

// StatusLine describes the latest progress event.
type StatusLine struct {
	Icon  string
	Label string
	Step  string
	// Text is the full single-line rendering, e.g. "🔍 Analyzing Ireland - Searching".
	Text string
	// Fraction is the estimated completion in [0, 1].
	Fraction float64
}

// ErrorBox is the error region.
type ErrorBox struct {
	Kind    ErrorKind
	Icon    string
	Message string
}

// Summary is the overall result header.
type Summary struct {
	Timestamp  string
	Countries  string
	Developers []string
	// MostPromising is nil when the section must be omitted.
	MostPromising []string
	ProjectCount  int
}

// CountrySection lists the projects of one country.
type CountrySection struct {
	Country  string
	Heading  string
	Projects []ProjectCard
}

// ProjectCard is one rendered project.
type ProjectCard struct {
	Name       string
	Location   string
	Capacity   string
	Investment string
	Developer  string
	Timeline   string
	Status     string
	Category   string
	Date       string
	Source     string
	// KeyPoints always has at least one entry.
	KeyPoints []string
	// Partners is nil when the section must be omitted.
	Partners []string
	// ReadMore is nil without a source URL.
	ReadMore *Link
}

// Link is a labelled URL.
type Link struct {
	Label string
	URL   string
}

// Present maps a state to its view model.
func Present(s orchestration.JobState) ViewModel {
	vm := ViewModel{
		Phase:   s.Phase,
		Loading: s.Loading(),
		Button:  Button{Label: ButtonIdle},
	}
	if vm.Loading {
		vm.Button = Button{Label: ButtonLoading, Disabled: true}
	}

	switch {
	case s.Notice != "":
		vm.Error = &ErrorBox{Kind: ErrorValidation, Icon: ErrorIcon, Message: s.Notice}
	case s.Phase == orchestration.PhaseFailed:
		vm.Error = &ErrorBox{Kind: ErrorFailure, Icon: ErrorIcon, Message: s.Failure}
	}

	if vm.Loading && vm.Error == nil && s.Progress != nil {
		st := Status(*s.Progress)
		st.Fraction = Fraction(s.Selection.Region, *s.Progress)
		vm.Status = &st
	}

	if s.Phase == orchestration.PhaseSucceeded && s.Result != nil {
		vm.Summary, vm.Countries = presentResult(*s.Result)
		vm.SearchResults, vm.SearchCountries = GroupSearchResults(s.SearchResults)
	}
	return vm
}

// Status renders one progress event. Unknown steps get DefaultStepIcon.
func Status(ev progress.Event) StatusLine {
	label := analyzingPattern + ev.Country
	if ev.Global() {
		label = FinalizingLabel
	}
	step := capitalize(string(ev.Step))
	icon := StepIcon(ev.Step)
	return StatusLine{
		Icon:  icon,
		Label: label,
		Step:  step,
		Text:  icon + " " + label + " - " + step,
	}
}

func presentResult(r analysis.AnalysisResult) (*Summary, []CountrySection) {
	sum := &Summary{
		Timestamp:  r.Timestamp,
		Countries:  NoCountries,
		Developers: append([]string(nil), r.Summary.MajorDevelopers...),
	}
	if len(r.Summary.CountriesAnalyzed) > 0 {
		sum.Countries = strings.Join(r.Summary.CountriesAnalyzed, ", ")
	}
	if len(r.Summary.MostPromisingProjects) > 0 {
		sum.MostPromising = append([]string(nil), r.Summary.MostPromisingProjects...)
	}

	names := make([]string, 0, len(r.ProjectsByCountry))
	for country := range r.ProjectsByCountry {
		names = append(names, country)
	}
	sort.Strings(names)

	sections := make([]CountrySection, 0, len(names))
	for _, country := range names {
		projects := r.ProjectsByCountry[country]
		cards := make([]ProjectCard, 0, len(projects))
		for _, p := range projects {
			cards = append(cards, card(p))
		}
		sum.ProjectCount += len(cards)
		sections = append(sections, CountrySection{
			Country:  country,
			Heading:  countryHeading(country, len(cards)),
			Projects: cards,
		})
	}
	return sum, sections
}

func countryHeading(country string, n int) string {
	if n == 1 {
		return country + " (1 project)"
	}
	return country + " (" + strconv.Itoa(n) + " projects)"
}

func card(p analysis.Project) ProjectCard {
	c := ProjectCard{
		Name:       p.Name,
		Location:   p.Location,
		Capacity:   p.Capacity,
		Investment: p.Investment,
		Developer:  p.Developer,
		Timeline:   p.Timeline,
		Status:     p.Status,
		Category:   p.Category,
		Date:       p.Date,
		Source:     p.SourceName,
		KeyPoints:  []string{NoKeyPoints},
	}
	if len(p.KeyPoints) > 0 {
		c.KeyPoints = append([]string(nil), p.KeyPoints...)
	}
	if len(p.Partners) > 0 {
		c.Partners = append([]string(nil), p.Partners...)
	}
	if p.SourceURL != "" {
		c.ReadMore = &Link{Label: ReadMoreLabel, URL: p.SourceURL}
	}
	return c
}

// GroupSearchResults buckets results by country and returns the sorted keys.
func GroupSearchResults(results []analysis.SearchResult) (map[string][]analysis.SearchResult, []string) {
	groups := make(map[string][]analysis.SearchResult)
	for _, r := range results {
		groups[r.Country] = append(groups[r.Country], r)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return groups, keys
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
