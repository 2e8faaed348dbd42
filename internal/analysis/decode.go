package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	apperrors "github.com/agbru/epanalyzer/internal/errors"
)

// UnknownLocation buckets raw projects that carry no location.
const UnknownLocation = "Unknown"

var errUnknownShape = errors.New("response has neither analysis nor raw_result")

type envelope struct {
	Error         json.RawMessage `json:"error"`
	Timestamp     string          `json:"timestamp"`
	Analysis      *analysisBody   `json:"analysis"`
	RawResult     *rawBody        `json:"raw_result"`
	SearchResults []SearchResult  `json:"search_results"`
}

type analysisBody struct {
	Timestamp         string                      `json:"timestamp"`
	Summary           Summary                     `json:"summary"`
	ProjectsByCountry map[string][]flexibleProject `json:"projects_by_country"`
}

type rawBody struct {
	Projects      []flexibleProject `json:"projects"`
	SearchResults []SearchResult    `json:"search_results"`
}

// Decode resolves a service payload into a Response. An embedded "error"
// string or a payload matching neither known shape yields a PayloadError.
func Decode(body []byte) (Response, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Response{}, apperrors.PayloadError{Body: string(body), Cause: err}
	}
	if msg := embeddedError(env.Error); msg != "" {
		return Response{}, apperrors.PayloadError{Embedded: msg, Body: string(body)}
	}

	switch {
	case env.Analysis != nil:
		return Response{
			Variant:       VariantSummary,
			Result:        env.Analysis.normalize(env.Timestamp),
			SearchResults: nonNil(env.SearchResults),
		}, nil
	case env.RawResult != nil:
		search := env.RawResult.SearchResults
		if len(search) == 0 {
			search = env.SearchResults
		}
		return Response{
			Variant:       VariantRaw,
			Result:        bucketByLocation(env.Timestamp, env.RawResult.Projects),
			SearchResults: nonNil(search),
		}, nil
	}
	return Response{}, apperrors.PayloadError{Body: string(body), Cause: errUnknownShape}
}

func embeddedError(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (a *analysisBody) normalize(fallbackTimestamp string) AnalysisResult {
	ts := a.Timestamp
	if ts == "" {
		ts = fallbackTimestamp
	}
	byCountry := make(map[string][]Project, len(a.ProjectsByCountry))
	for country, list := range a.ProjectsByCountry {
		projects := make([]Project, 0, len(list))
		for _, p := range list {
			projects = append(projects, p.Project)
		}
		byCountry[country] = projects
	}
	return AnalysisResult{
		Timestamp: ts,
		Summary: Summary{
			CountriesAnalyzed:     nonNil(a.Summary.CountriesAnalyzed),
			MajorDevelopers:       nonNil(a.Summary.MajorDevelopers),
			MostPromisingProjects: nonNil(a.Summary.MostPromisingProjects),
		},
		ProjectsByCountry: byCountry,
	}
}

// bucketByLocation groups a flat project list by location and derives the
// summary: countries in first-seen order and distinct known developers.
func bucketByLocation(timestamp string, list []flexibleProject) AnalysisResult {
	result := AnalysisResult{
		Timestamp: timestamp,
		Summary: Summary{
			CountriesAnalyzed:     []string{},
			MajorDevelopers:       []string{},
			MostPromisingProjects: []string{},
		},
		ProjectsByCountry: make(map[string][]Project),
	}
	seenDev := make(map[string]struct{})
	for _, fp := range list {
		p := fp.Project
		country := strings.TrimSpace(p.Location)
		if country == "" {
			country = UnknownLocation
		}
		if _, ok := result.ProjectsByCountry[country]; !ok {
			result.Summary.CountriesAnalyzed = append(result.Summary.CountriesAnalyzed, country)
		}
		result.ProjectsByCountry[country] = append(result.ProjectsByCountry[country], p)

		if dev := strings.TrimSpace(p.Developer); dev != "" && dev != UnknownLocation {
			if _, ok := seenDev[dev]; !ok {
				seenDev[dev] = struct{}{}
				result.Summary.MajorDevelopers = append(result.Summary.MajorDevelopers, dev)
			}
		}
	}
	return result
}

// flexibleProject accepts the alias spellings the service has emitted over
// time, such as ProjectName, Capacity_MW and KeyPoints.
type flexibleProject struct {
	Project
}

var projectAliases = map[string][]string{
	"name":        {"name", "ProjectName"},
	"location":    {"location", "Location"},
	"capacity":    {"capacity", "Capacity_MW"},
	"timeline":    {"timeline", "Timeline"},
	"investment":  {"investment", "InvestmentValue"},
	"developer":   {"developer", "Developer"},
	"status":      {"status", "CurrentStatus"},
	"category":    {"category"},
	"date":        {"date"},
	"source_url":  {"source_url"},
	"source_name": {"source_name"},
	"keyPoints":   {"keyPoints", "KeyPoints", "key_points"},
	"partners":    {"partners", "Partners"},
}

func (f *flexibleProject) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	lookup := func(key string) json.RawMessage {
		for _, alias := range projectAliases[key] {
			if v, ok := fields[alias]; ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
				return v
			}
		}
		return nil
	}

	p := &f.Project
	p.Name = scalarString(lookup("name"))
	p.Location = scalarString(lookup("location"))
	p.Capacity = scalarString(lookup("capacity"))
	p.Timeline = scalarString(lookup("timeline"))
	p.Investment = scalarString(lookup("investment"))
	p.Developer = scalarString(lookup("developer"))
	p.Status = scalarString(lookup("status"))
	p.Category = scalarString(lookup("category"))
	p.Date = scalarString(lookup("date"))
	p.SourceURL = scalarString(lookup("source_url"))
	p.SourceName = scalarString(lookup("source_name"))
	p.KeyPoints = stringList(lookup("keyPoints"))
	p.Partners = stringList(lookup("partners"))
	return nil
}

// scalarString renders a JSON string, number or bool as text. Numeric
// capacities such as 120.5 become "120.5".
func scalarString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

// stringList accepts a list of scalars; anything else yields nil.
func stringList(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := scalarString(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
