package services

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/montanaflynn/stats"

	"secretsanta/internal/models"
)

// SimulationReport summarizes how often each eligible pairing came up over
// a series of draws.
type SimulationReport struct {
	Runs int `json:"runs"`
	// Counts[i][j] is the number of draws in which i gave to j.
	Counts [][]int `json:"counts"`
	// EligiblePairs is the number of (giver, recipient) pairs the roster allows.
	EligiblePairs int     `json:"eligiblePairs"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"stdDev"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
}

// Simulate runs draws independent assignments of people, seeded from seed,
// and verifies each one. people is not modified.
func Simulate(people []*models.Participant, draws int, seed int64) (*SimulationReport, error) {
	if draws < 1 {
		return nil, errors.New("simulate: draws must be positive")
	}
	if err := CheckFeasible(people); err != nil {
		return nil, err
	}

	n := len(people)
	counts := make([][]int, n)
	for i := range counts {
		counts[i] = make([]int, n)
	}

	assigner := NewAssigner(rand.New(rand.NewSource(seed)))
	for run := 0; run < draws; run++ {
		roster := CloneRoster(people)
		if err := assigner.Assign(roster); err != nil {
			return nil, fmt.Errorf("simulate: draw %d: %w", run, err)
		}
		for _, p := range roster {
			counts[p.Index][p.Recipient.Index]++
		}
	}

	graph := NewGraph(people)
	var frequencies []float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if graph.HasEdge(i, j) {
				frequencies = append(frequencies, float64(counts[i][j])/float64(draws))
			}
		}
	}

	report := &SimulationReport{Runs: draws, Counts: counts, EligiblePairs: len(frequencies)}
	var err error
	if report.Mean, err = stats.Mean(frequencies); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	if report.StdDev, err = stats.StandardDeviation(frequencies); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	if report.Min, err = stats.Min(frequencies); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	if report.Max, err = stats.Max(frequencies); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	return report, nil
}

// CloneRoster copies people with every Recipient cleared.
func CloneRoster(people []*models.Participant) []*models.Participant {
	roster := make([]*models.Participant, len(people))
	for i, p := range people {
		c := *p
		c.Recipient = nil
		roster[i] = &c
	}
	return roster
}
