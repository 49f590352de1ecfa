package services

import (
	"strconv"
	"strings"

	"secretsanta/internal/models"
)

// NoConflict is returned by Commit when the edge was committed.
const NoConflict = -1

// Graph is the eligibility graph of a single assignment run, stored as an
// adjacency matrix. Cell (i, j) is true when participant i may give to j.
// The diagonal and every intra-group cell are false from construction on,
// and cells only ever go from true to false.
//
// The graph also keeps a maximum matching of rows to destinations, repaired
// after every commit, so that each commit only re-augments the rows it
// displaced.
type Graph struct {
	edges [][]bool
	match []int // row -> column, -1 when unmatched
	owner []int // column -> row, -1 when unmatched
}

// NewGraph builds the eligibility graph for people. Each participant's Index
// must be unique and within [0, len(people)); see CheckFeasible.
func NewGraph(people []*models.Participant) *Graph {
	n := len(people)
	edges := make([][]bool, n)
	for i := range edges {
		edges[i] = make([]bool, n)
		for j := range edges[i] {
			edges[i][j] = true
		}
	}

	groups := make(map[string][]int)
	for _, p := range people {
		groups[p.Group] = append(groups[p.Group], p.Index)
	}
	for _, members := range groups {
		for a, i := range members {
			edges[i][i] = false
			for _, j := range members[a+1:] {
				edges[i][j] = false
				edges[j][i] = false
			}
		}
	}
	g := &Graph{edges: edges, match: make([]int, n), owner: make([]int, n)}
	for i := 0; i < n; i++ {
		g.match[i] = -1
		g.owner[i] = -1
	}
	g.unmatchedRow()
	return g
}

// Size returns the number of participants in the graph.
func (g *Graph) Size() int {
	return len(g.edges)
}

// HasEdge reports whether source may still give to destination.
func (g *Graph) HasEdge(source, destination int) bool {
	return g.edges[source][destination]
}

// Destinations returns, in index order, every participant source may still give to.
func (g *Graph) Destinations(source int) []int {
	var result []int
	for j, ok := range g.edges[source] {
		if ok {
			result = append(result, j)
		}
	}
	return result
}

// OutDegree returns the number of participants row may still give to.
func (g *Graph) OutDegree(row int) int {
	degree := 0
	for _, ok := range g.edges[row] {
		if ok {
			degree++
		}
	}
	return degree
}

// Commit fixes source's recipient to destination. Every other edge into
// destination and every other edge out of source is removed.
//
// Before anything is removed the commit is checked against the rest of the
// graph: no other row may lose its last destination, and the remaining rows
// must still be matchable to distinct destinations. When either check fails
// the graph is left untouched and the offending row is returned with ok false;
// the caller should pick a different destination for source.
func (g *Graph) Commit(source, destination int) (conflict int, ok bool) {
	if !g.edges[source][destination] {
		return source, false
	}

	for i := range g.edges {
		if i == source || !g.edges[i][destination] {
			continue
		}
		g.edges[i][destination] = false
		dead := g.OutDegree(i) == 0
		g.edges[i][destination] = true
		if dead {
			return i, false
		}
	}

	match := append([]int(nil), g.match...)
	owner := append([]int(nil), g.owner...)

	removed := g.removeIncoming(destination, source)
	removed = append(removed, g.removeOutgoing(source, destination)...)

	// Only the rows matched over a removed edge lose their column.
	if row := g.owner[destination]; row >= 0 && row != source {
		g.unmatch(row)
	}
	if col := g.match[source]; col >= 0 && col != destination {
		g.unmatch(source)
	}

	if row, matched := g.unmatchedRow(); !matched {
		for _, c := range removed {
			g.edges[c.row][c.col] = true
		}
		copy(g.match, match)
		copy(g.owner, owner)
		return row, false
	}
	return NoConflict, true
}

func (g *Graph) unmatch(row int) {
	g.owner[g.match[row]] = -1
	g.match[row] = -1
}

type cell struct {
	row, col int
}

func (g *Graph) removeIncoming(destination, source int) []cell {
	var removed []cell
	for i := range g.edges {
		if i != source && g.edges[i][destination] {
			g.edges[i][destination] = false
			removed = append(removed, cell{i, destination})
		}
	}
	return removed
}

func (g *Graph) removeOutgoing(source, destination int) []cell {
	var removed []cell
	for j, ok := range g.edges[source] {
		if ok && j != destination {
			g.edges[source][j] = false
			removed = append(removed, cell{source, j})
		}
	}
	return removed
}

// unmatchedRow extends the kept matching along augmenting paths until every
// row is matched. It returns the first row that cannot be matched.
func (g *Graph) unmatchedRow() (int, bool) {
	seen := make([]bool, len(g.edges))
	for i := range g.edges {
		if g.match[i] >= 0 {
			continue
		}
		for j := range seen {
			seen[j] = false
		}
		if !g.augment(i, seen) {
			return i, false
		}
	}
	return NoConflict, true
}

func (g *Graph) augment(row int, seen []bool) bool {
	for j, ok := range g.edges[row] {
		if !ok || seen[j] {
			continue
		}
		seen[j] = true
		if g.owner[j] < 0 || g.augment(g.owner[j], seen) {
			g.owner[j] = row
			g.match[row] = j
			return true
		}
	}
	return false
}

func (g *Graph) String() string {
	var b strings.Builder
	for _, row := range g.edges {
		for j, ok := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatBool(ok))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
