package view

import (
	"github.com/agbru/epanalyzer/internal/analysis"
	"github.com/agbru/epanalyzer/internal/progress"
)

// countrySteps are the per-country stages in the order the service emits them.
var countrySteps = []progress.Step{
	progress.StepStarting,
	progress.StepSearching,
	progress.StepProcessing,
	progress.StepAnalyzing,
}

// Fraction estimates how far a job for region has got once ev arrived, in
// [0, 1]. Every country contributes one unit per stage and the combine and
// complete steps one unit each. Events that cannot be placed yield zero.
func Fraction(region analysis.Region, ev progress.Event) float64 {
	if ev.Step == progress.StepComplete {
		return 1
	}
	countries := analysis.CountriesForRegion(region)
	if len(countries) == 0 {
		return 0
	}
	total := float64(len(countrySteps)*len(countries) + 2)

	if ev.Global() {
		if ev.Step == progress.StepCombining {
			return (total - 1) / total
		}
		return 0
	}
	ci := indexOf(countries, ev.Country)
	si := indexOf(countrySteps, ev.Step)
	if ci < 0 || si < 0 {
		return 0
	}
	return float64(ci*len(countrySteps)+si+1) / total
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}
