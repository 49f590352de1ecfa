package services

import (
	"errors"
	"testing"
)

func TestSimulate(t *testing.T) {
	t.Run("Test two participants always swap", func(t *testing.T) {
		report, err := Simulate(newRoster("A", "B"), 50, 3)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if report.Counts[0][1] != 50 || report.Counts[1][0] != 50 {
			t.Errorf("Expected both pairings in every draw, but got %v", report.Counts)
		}
		if report.EligiblePairs != 2 {
			t.Errorf("Expected 2 eligible pairs, but got %d", report.EligiblePairs)
		}
		if report.Mean != 1 || report.StdDev != 0 {
			t.Errorf("Expected mean 1 and stddev 0, but got %v and %v", report.Mean, report.StdDev)
		}
	})

	t.Run("Test every eligible pairing occurs", func(t *testing.T) {
		people := newRoster("A", "A", "B", "B", "C", "C")
		report, err := Simulate(people, 500, 11)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		g := NewGraph(people)
		for i := range report.Counts {
			total := 0
			for j, c := range report.Counts[i] {
				total += c
				if g.HasEdge(i, j) && c == 0 {
					t.Errorf("Expected %d -> %d to occur at least once", i, j)
				}
				if !g.HasEdge(i, j) && c != 0 {
					t.Errorf("Expected %d -> %d never to occur, but got %d", i, j, c)
				}
			}
			if total != 500 {
				t.Errorf("Expected %d to give once per draw, but got %d", i, total)
			}
		}
		if report.Min <= 0 || report.Max >= 1 {
			t.Errorf("Expected frequencies strictly between 0 and 1, got min %v max %v", report.Min, report.Max)
		}
		for _, p := range people {
			if p.Recipient != nil {
				t.Fatal("Expected the input roster to stay unassigned")
			}
		}
	})

	t.Run("Test invalid arguments", func(t *testing.T) {
		if _, err := Simulate(newRoster("A", "B"), 0, 1); err == nil {
			t.Error("Expected an error for zero draws")
		}
		if _, err := Simulate(newRoster("A", "A", "B"), 10, 1); !errors.Is(err, ErrInfeasible) {
			t.Errorf("Expected ErrInfeasible, but got %v", err)
		}
	})
}
