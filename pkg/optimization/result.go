// Package optimization provides shared data structures for dosing results.
package optimization

import "github.com/iwvelando/brew-water/pkg/water"

// DropRecommendation is the dose of one solution for one mineral.
type DropRecommendation struct {
	Solution water.Solution `json:"solution"`
	// Target names the quantity being raised: calcium, magnesium, sodium or bicarbonate.
	Target    string  `json:"target"`
	Drops     int     `json:"drops"`
	PPMAdded  float64 `json:"ppmAdded"`
	FinalPPM  float64 `json:"finalPpm"`
	IsOptimal bool    `json:"isOptimal"`
}

// Result is the outcome of one optimization call.
type Result struct {
	Current          water.Profile        `json:"current"`
	Target           water.Profile        `json:"target"`
	Recommendations  []DropRecommendation `json:"recommendations"`
	Achievable       water.Profile        `json:"achievable"`
	ImprovementScore float64              `json:"improvementScore"`
	Warnings         []string             `json:"warnings,omitempty"`
}

// Empty indicates whether no drops were recommended.
func (r Result) Empty() bool {
	return len(r.Recommendations) == 0
}

// TotalDrops sums drops across all recommendations.
func (r Result) TotalDrops() int {
	total := 0
	for _, rec := range r.Recommendations {
		total += rec.Drops
	}
	return total
}

// Find returns the recommendation for target, if any.
func (r Result) Find(target string) (DropRecommendation, bool) {
	for _, rec := range r.Recommendations {
		if rec.Target == target {
			return rec, true
		}
	}
	return DropRecommendation{}, false
}
