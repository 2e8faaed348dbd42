package analysis

import (
	"errors"
	"testing"

	apperrors "github.com/agbru/epanalyzer/internal/errors"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const summaryPayload = `{
  "search_results": [
    {"url": "https://a.example", "description": "A", "country": "Ireland"},
    {"url": "https://b.example", "description": "B", "country": "Romania"}
  ],
  "analysis": {
    "timestamp": "2024-05-01T10:00:00",
    "summary": {
      "countries_analyzed": ["Ireland", "Romania"],
      "major_developers": ["Acme"],
      "most_promising_projects": []
    },
    "projects_by_country": {
      "Ireland": [{"name": "Sun Farm", "location": "Ireland", "capacity": "50", "keyPoints": ["grid ready"]}],
      "Romania": [{"ProjectName": "Delta PV", "Capacity_MW": 120.5, "KeyPoints": ["permits"], "Partners": ["Beta"]}]
    }
  }
}`

func TestDecodeSummaryVariant(t *testing.T) {
	t.Parallel()
	resp, err := Decode([]byte(summaryPayload))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if resp.Variant != VariantSummary {
		t.Errorf("Variant = %v, want summary", resp.Variant)
	}
	if got := len(resp.SearchResults); got != 2 {
		t.Errorf("len(SearchResults) = %d, want 2", got)
	}
	if resp.Result.Timestamp != "2024-05-01T10:00:00" {
		t.Errorf("Timestamp = %q", resp.Result.Timestamp)
	}
	ro := resp.Result.ProjectsByCountry["Romania"]
	if len(ro) != 1 {
		t.Fatalf("Romania projects = %d, want 1", len(ro))
	}
	p := ro[0]
	if p.Name != "Delta PV" || p.Capacity != "120.5" {
		t.Errorf("alias fields not applied: %+v", p)
	}
	if len(p.KeyPoints) != 1 || p.KeyPoints[0] != "permits" {
		t.Errorf("KeyPoints = %v", p.KeyPoints)
	}
	if len(p.Partners) != 1 || p.Partners[0] != "Beta" {
		t.Errorf("Partners = %v", p.Partners)
	}
	if resp.Result.Summary.MostPromisingProjects == nil {
		t.Error("empty list should decode to a non-nil slice")
	}
}

func TestDecodeRawVariant(t *testing.T) {
	t.Parallel()
	body := `{
	  "timestamp": "2024-05-01 10:00:00",
	  "raw_result": {
	    "projects": [
	      {"name": "North Wind", "location": "Ireland", "developer": "Acme"},
	      {"name": "Orphan", "developer": "Unknown"},
	      {"name": "West Wind", "location": "Ireland", "developer": "Acme", "key_points": ["offshore"]},
	      {"name": "Black Sea", "location": "Romania", "developer": "Gamma"}
	    ],
	    "search_results": [],
	    "token_usage": {"total_tokens": 0}
	  }
	}`
	resp, err := Decode([]byte(body))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if resp.Variant != VariantRaw {
		t.Fatalf("Variant = %v, want raw", resp.Variant)
	}
	wantCountries := []string{"Ireland", UnknownLocation, "Romania"}
	got := resp.Result.Summary.CountriesAnalyzed
	if len(got) != len(wantCountries) {
		t.Fatalf("CountriesAnalyzed = %v, want %v", got, wantCountries)
	}
	for i := range got {
		if got[i] != wantCountries[i] {
			t.Errorf("CountriesAnalyzed[%d] = %q, want %q", i, got[i], wantCountries[i])
		}
	}
	if devs := resp.Result.Summary.MajorDevelopers; len(devs) != 2 || devs[0] != "Acme" || devs[1] != "Gamma" {
		t.Errorf("MajorDevelopers = %v, want [Acme Gamma]", devs)
	}
	if n := len(resp.Result.ProjectsByCountry["Ireland"]); n != 2 {
		t.Errorf("Ireland bucket = %d, want 2", n)
	}
	if kp := resp.Result.ProjectsByCountry["Ireland"][1].KeyPoints; len(kp) != 1 || kp[0] != "offshore" {
		t.Errorf("key_points alias not applied: %v", kp)
	}
	if resp.Result.Timestamp != "2024-05-01 10:00:00" {
		t.Errorf("Timestamp = %q", resp.Result.Timestamp)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		body         string
		wantEmbedded string
	}{
		{"embedded error", `{"error": "Server error: quota exceeded"}`, "Server error: quota exceeded"},
		{"embedded error beside a result", `{"error": "partial", "analysis": {}}`, "partial"},
		{"not json", `<html>oops</html>`, ""},
		{"unknown shape", `{"status": "ok"}`, ""},
		{"array", `[]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tt.body))
			var perr apperrors.PayloadError
			if !errors.As(err, &perr) {
				t.Fatalf("expected PayloadError, got %T (%v)", err, err)
			}
			if perr.Embedded != tt.wantEmbedded {
				t.Errorf("Embedded = %q, want %q", perr.Embedded, tt.wantEmbedded)
			}
			if tt.wantEmbedded != "" && err.Error() != tt.wantEmbedded {
				t.Errorf("Error() = %q, want the embedded text verbatim", err.Error())
			}
		})
	}
}

func TestDecodeNullErrorIsIgnored(t *testing.T) {
	t.Parallel()
	resp, err := Decode([]byte(`{"error": null, "raw_result": {"projects": []}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if resp.Variant != VariantRaw || len(resp.Result.ProjectsByCountry) != 0 {
		t.Errorf("unexpected response %+v", resp)
	}
}

// TestBucketByLocationProperties checks that bucketing never loses or
// duplicates projects and that every bucket is listed exactly once.
func TestBucketByLocationProperties(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	locations := []string{"Ireland", "Romania", "United States", ""}

	properties.Property("bucket sizes sum to the project count", prop.ForAll(
		func(picks []int) bool {
			list := make([]flexibleProject, len(picks))
			for i, idx := range picks {
				list[i] = flexibleProject{Project{Name: "p", Location: locations[idx]}}
			}
			res := bucketByLocation("", list)
			total := 0
			for _, b := range res.ProjectsByCountry {
				total += len(b)
			}
			return total == len(picks) && len(res.Summary.CountriesAnalyzed) == len(res.ProjectsByCountry)
		},
		gen.SliceOf(gen.IntRange(0, len(locations)-1)),
	))

	properties.TestingRun(t)
}
