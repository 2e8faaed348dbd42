package server

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/agbru/epanalyzer/internal/analysis"
)

var sampleDevelopers = []string{"Iberdrola", "Enel Green Power", "NextEra Energy", "RWE"}

type sampleProject struct {
	Name       string `json:"name"`
	Location   string `json:"location"`
	Capacity   string `json:"capacity"`
	Developer  string `json:"developer"`
	Investment string `json:"investment"`
	Timeline   string `json:"timeline"`
	Status     string `json:"status"`
	SourceURL  string `json:"source_url"`
	SourceName string `json:"source_name"`
}

type sampleTokenUsage struct {
	TotalTokens      int `json:"total_tokens"`
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type sampleRaw struct {
	Projects      []sampleProject         `json:"projects"`
	SearchResults []analysis.SearchResult `json:"search_results"`
	TokenUsage    sampleTokenUsage        `json:"token_usage"`
}

type sampleResponse struct {
	Timestamp string    `json:"timestamp"`
	RawResult sampleRaw `json:"raw_result"`
}

// SampleBody builds a raw_result payload with two projects per country of
// region. Output depends only on its arguments.
func SampleBody(region analysis.Region, technology analysis.Technology, now time.Time) ([]byte, error) {
	countries := analysis.CountriesForRegion(region)
	if countries == nil {
		return nil, fmt.Errorf("invalid region: %s", region)
	}
	tech := technologyName(technology)

	resp := sampleResponse{Timestamp: now.UTC().Format(time.RFC3339)}
	resp.RawResult.Projects = []sampleProject{}
	resp.RawResult.SearchResults = []analysis.SearchResult{}
	for i, country := range countries {
		slug := strings.ToLower(strings.ReplaceAll(country, " ", "-"))
		for j := 0; j < 2; j++ {
			n := i*2 + j
			resp.RawResult.Projects = append(resp.RawResult.Projects, sampleProject{
				Name:       fmt.Sprintf("%s %s Project %d", country, tech, j+1),
				Location:   country,
				Capacity:   fmt.Sprintf("%d", 50*(n+1)),
				Developer:  sampleDevelopers[n%len(sampleDevelopers)],
				Investment: fmt.Sprintf("€%dM", 40*(n+1)),
				Timeline:   fmt.Sprintf("%d-%d", 2025+j, 2027+j),
				Status:     "Planned",
				SourceURL:  fmt.Sprintf("https://news.example.com/%s/%s-%d", slug, technology, j+1),
				SourceName: "Energy News",
			})
		}
		resp.RawResult.SearchResults = append(resp.RawResult.SearchResults, analysis.SearchResult{
			URL:         fmt.Sprintf("https://news.example.com/%s", slug),
			Description: fmt.Sprintf("%s projects in %s", tech, country),
			Country:     country,
		})
	}
	return json.Marshal(resp)
}

func technologyName(t analysis.Technology) string {
	for _, opt := range analysis.Technologies() {
		if opt.ID == t {
			return opt.Name
		}
	}
	if t == "" {
		return "Energy"
	}
	return string(t)
}
