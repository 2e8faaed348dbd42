package analysis

import (
	"errors"
	"testing"

	apperrors "github.com/agbru/epanalyzer/internal/errors"
)

func TestSelectionValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		sel     Selection
		wantErr bool
	}{
		{"complete", Selection{Region: RegionEU, Technology: TechSolar}, false},
		{"missing technology", Selection{Region: RegionUSA}, true},
		{"missing region", Selection{Technology: TechWind}, true},
		{"empty", Selection{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.sel.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var verr apperrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if err.Error() != SelectionRequiredMessage {
				t.Errorf("message = %q, want %q", err.Error(), SelectionRequiredMessage)
			}
		})
	}
}

func TestCountriesForRegion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		region Region
		want   []string
	}{
		{RegionUSA, []string{"United States"}},
		{RegionEU, []string{"Ireland", "Romania"}},
		{Region("APAC"), nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.region), func(t *testing.T) {
			t.Parallel()
			got := CountriesForRegion(tt.region)
			if len(got) != len(tt.want) {
				t.Fatalf("CountriesForRegion(%q) = %v, want %v", tt.region, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("CountriesForRegion(%q)[%d] = %q, want %q", tt.region, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCatalogsAreCopies(t *testing.T) {
	t.Parallel()
	regions := Regions()
	regions[0].Name = "mutated"
	if Regions()[0].Name == "mutated" {
		t.Error("Regions() must return a copy")
	}
	countries := CountriesForRegion(RegionEU)
	countries[0] = "mutated"
	if CountriesForRegion(RegionEU)[0] == "mutated" {
		t.Error("CountriesForRegion() must return a copy")
	}
}

func TestCatalogValidity(t *testing.T) {
	t.Parallel()
	for _, o := range Regions() {
		if !o.ID.Valid() {
			t.Errorf("region %q should be valid", o.ID)
		}
	}
	for _, o := range Technologies() {
		if !o.ID.Valid() {
			t.Errorf("technology %q should be valid", o.ID)
		}
	}
	if Region("Mars").Valid() || Technology("coal").Valid() {
		t.Error("values outside the catalog must be invalid")
	}
	if len(Technologies()) != 5 {
		t.Errorf("expected 5 technologies, got %d", len(Technologies()))
	}
}
