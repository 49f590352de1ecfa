package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/logger"

	"secretsanta/internal/models"
)

var (
	// ErrInfeasible reports a roster for which no valid assignment exists.
	ErrInfeasible = errors.New("roster cannot be assigned")
	// ErrInvariantViolation reports an incomplete or inconsistent assignment.
	// It means the assignment logic is broken, not the input.
	ErrInvariantViolation = errors.New("assignment invariant violated")
)

// Rand is the entropy source used by an Assigner. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Perm(n int) []int
}

// Assigner draws a recipient for every participant. It is not safe for
// concurrent use; give every goroutine its own Assigner and Rand.
type Assigner struct {
	rng Rand
	log *logger.Logger
}

// NewAssigner creates an Assigner drawing from rng.
func NewAssigner(rng Rand) *Assigner {
	return &Assigner{rng: rng}
}

// WithLogger makes the Assigner log to l instead of the default logger.
func (a *Assigner) WithLogger(l *logger.Logger) *Assigner {
	a.log = l
	return a
}

func (a *Assigner) warningf(format string, v ...interface{}) {
	if a.log != nil {
		a.log.Warningf(format, v...)
		return
	}
	logger.Warningf(format, v...)
}

// Assign sets Recipient on every participant in people. Participants are
// visited in a random order and each one takes a random destination that
// keeps the rest of the roster assignable.
//
// An ErrInfeasible error means the roster itself is unusable and nothing was
// assigned. An ErrInvariantViolation error means the run went wrong.
func (a *Assigner) Assign(people []*models.Participant) error {
	if err := CheckFeasible(people); err != nil {
		return err
	}

	graph := NewGraph(people)
	if row, ok := graph.unmatchedRow(); !ok {
		return fmt.Errorf("%w: no recipient left for %q", ErrInfeasible, people[row].Name)
	}

	byIndex := make([]*models.Participant, len(people))
	for _, p := range people {
		byIndex[p.Index] = p
	}

	for _, source := range a.rng.Perm(len(people)) {
		p := byIndex[source]
		if p.Recipient != nil {
			continue
		}
		destination, err := a.choose(graph, source)
		if err != nil {
			return err
		}
		p.Recipient = byIndex[destination]
	}

	return Verify(people)
}

// choose samples destinations for source until one commits. A rejected
// destination is not offered again.
func (a *Assigner) choose(graph *Graph, source int) (int, error) {
	candidates := graph.Destinations(source)
	for len(candidates) > 0 {
		k := a.rng.Intn(len(candidates))
		destination := candidates[k]
		conflict, ok := graph.Commit(source, destination)
		if ok {
			return destination, nil
		}
		a.warningf("Rejected recipient %d for participant %d: participant %d would be left without a recipient",
			destination, source, conflict)
		candidates = append(candidates[:k], candidates[k+1:]...)
	}
	return 0, fmt.Errorf("%w: participant %d has no viable recipient", ErrInvariantViolation, source)
}

// CheckFeasible validates a roster before it is assigned.
func CheckFeasible(people []*models.Participant) error {
	n := len(people)
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 participants, got %d", ErrInfeasible, n)
	}

	seen := make([]bool, n)
	groups := make(map[string]int)
	for _, p := range people {
		if p.Index < 0 || p.Index >= n {
			return fmt.Errorf("%w: participant %q has index %d outside [0, %d)", ErrInfeasible, p.Name, p.Index, n)
		}
		if seen[p.Index] {
			return fmt.Errorf("%w: duplicate index %d", ErrInfeasible, p.Index)
		}
		seen[p.Index] = true
		if p.Recipient != nil {
			return fmt.Errorf("%w: participant %q is already assigned", ErrInfeasible, p.Name)
		}
		groups[p.Group]++
	}

	for group, size := range groups {
		if 2*size > n {
			return fmt.Errorf("%w: group %q has %d of %d participants, at most %d allowed",
				ErrInfeasible, group, size, n, n/2)
		}
	}
	return nil
}

// Verify checks that people form a complete assignment: everybody has a
// recipient outside their own group and nobody is received twice.
func Verify(people []*models.Participant) error {
	received := make(map[*models.Participant]*models.Participant, len(people))
	for _, p := range people {
		r := p.Recipient
		switch {
		case r == nil:
			return fmt.Errorf("%w: %q has no recipient", ErrInvariantViolation, p.Name)
		case r == p || r.Index == p.Index:
			return fmt.Errorf("%w: %q is assigned to themselves", ErrInvariantViolation, p.Name)
		case r.Group == p.Group:
			return fmt.Errorf("%w: %q is assigned to %q from the same group", ErrInvariantViolation, p.Name, r.Name)
		}
		if prev, dup := received[r]; dup {
			return fmt.Errorf("%w: %q is assigned to both %q and %q", ErrInvariantViolation, r.Name, prev.Name, p.Name)
		}
		received[r] = p
	}
	for _, p := range people {
		if _, ok := received[p]; !ok {
			return fmt.Errorf("%w: nobody gives to %q", ErrInvariantViolation, p.Name)
		}
	}
	return nil
}

// Pairings lists the assignment of people ordered by giver index.
func Pairings(people []*models.Participant) []models.Pairing {
	pairings := make([]models.Pairing, 0, len(people))
	for _, p := range people {
		if p.Recipient == nil {
			continue
		}
		pairings = append(pairings, models.Pairing{
			GiverIndex:     p.Index,
			GiverName:      p.Name,
			RecipientIndex: p.Recipient.Index,
			RecipientName:  p.Recipient.Name,
		})
	}
	sort.Slice(pairings, func(i, j int) bool {
		return pairings[i].GiverIndex < pairings[j].GiverIndex
	})
	return pairings
}
