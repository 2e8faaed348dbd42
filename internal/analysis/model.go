package analysis

import (
	apperrors "github.com/agbru/epanalyzer/internal/errors"
)

// SelectionRequiredMessage is shown when a job is triggered without a
// complete selection.
const SelectionRequiredMessage = "Please select both region and technology"

// Region identifies a geographic scope understood by the service.
type Region string

// Technology identifies an energy technology understood by the service.
type Technology string

const (
	RegionUSA Region = "USA"
	RegionEU  Region = "EU"
)

const (
	TechSolar  Technology = "solar"
	TechWind   Technology = "wind"
	TechBESS   Technology = "bess"
	TechBiogas Technology = "biogas"
	TechH2     Technology = "h2"
)

// Option is one entry of a selection catalog.
type Option[T ~string] struct {
	ID   T
	Name string
	Icon string
}

var regionOptions = []Option[Region]{
	{ID: RegionUSA, Name: "United States", Icon: "🇺🇸"},
	{ID: RegionEU, Name: "European Union", Icon: "🇪🇺"},
}

var technologyOptions = []Option[Technology]{
	{ID: TechSolar, Name: "Solar", Icon: "☀️"},
	{ID: TechWind, Name: "Wind", Icon: "💨"},
	{ID: TechBESS, Name: "Battery Storage", Icon: "🔋"},
	{ID: TechBiogas, Name: "Biogas", Icon: "🌱"},
	{ID: TechH2, Name: "Hydrogen", Icon: "💧"},
}

var regionCountries = map[Region][]string{
	RegionUSA: {"United States"},
	RegionEU:  {"Ireland", "Romania"},
}

// Regions returns the region catalog in display order.
func Regions() []Option[Region] {
	return append([]Option[Region](nil), regionOptions...)
}

// Technologies returns the technology catalog in display order.
func Technologies() []Option[Technology] {
	return append([]Option[Technology](nil), technologyOptions...)
}

// CountriesForRegion returns the countries the service analyzes for a region,
// or nil for an unknown region.
func CountriesForRegion(r Region) []string {
	return append([]string(nil), regionCountries[r]...)
}

// Valid reports whether r is part of the region catalog.
func (r Region) Valid() bool {
	_, ok := regionCountries[r]
	return ok
}

// Valid reports whether t is part of the technology catalog.
func (t Technology) Valid() bool {
	for _, o := range technologyOptions {
		if o.ID == t {
			return true
		}
	}
	return false
}

// Selection is the user's choice of region and technology for one job.
type Selection struct {
	Region     Region
	Technology Technology
}

// Complete reports whether both fields are set.
func (s Selection) Complete() bool {
	return s.Region != "" && s.Technology != ""
}

// Validate returns a ValidationError when either field is empty.
func (s Selection) Validate() error {
	if !s.Complete() {
		return apperrors.ValidationError{Message: SelectionRequiredMessage}
	}
	return nil
}

// Project is a single energy project reported by the service.
type Project struct {
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Capacity   string   `json:"capacity"`
	Timeline   string   `json:"timeline"`
	Investment string   `json:"investment"`
	Developer  string   `json:"developer"`
	Status     string   `json:"status"`
	Category   string   `json:"category"`
	Date       string   `json:"date"`
	SourceURL  string   `json:"source_url"`
	SourceName string   `json:"source_name"`
	KeyPoints  []string `json:"keyPoints"`
	Partners   []string `json:"partners"`
}

// Summary aggregates a whole analysis.
type Summary struct {
	CountriesAnalyzed     []string `json:"countries_analyzed"`
	MajorDevelopers       []string `json:"major_developers"`
	MostPromisingProjects []string `json:"most_promising_projects"`
}

// AnalysisResult is the normalized outcome of a successful job.
type AnalysisResult struct {
	Timestamp         string               `json:"timestamp"`
	Summary           Summary              `json:"summary"`
	ProjectsByCountry map[string][]Project `json:"projects_by_country"`
}

// SearchResult is a source document the service consulted.
type SearchResult struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	Country     string `json:"country"`
}

// Variant names the response shape a payload was decoded from.
type Variant int

const (
	VariantSummary Variant = iota + 1
	VariantRaw
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantSummary:
		return "summary"
	case VariantRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Response is a decoded service payload, normalized into one model
// whatever shape it arrived in.
type Response struct {
	Variant       Variant
	Result        AnalysisResult
	SearchResults []SearchResult
}
