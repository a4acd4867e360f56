package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// modulesFromEdges builds n modules where edges[i] lists the modules that
// require data produced by module i.
func modulesFromEdges(n int, edges map[int][]int) []ModuleMeta {
	modules := make([]ModuleMeta, n)
	for i := range modules {
		modules[i] = ModuleMeta{ID: ModuleID(i), Name: string(rune('A' + i))}
		for _, to := range edges[i] {
			modules[i].RequiredBy = append(modules[i].RequiredBy, ModuleID(to))
		}
	}
	return modules
}

func TestFindCycles(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		edges  map[int][]int
		cycles []CircularDep
	}{
		{
			name: "empty graph",
			n:    0,
		},
		{
			name:  "chain",
			n:     3,
			edges: map[int][]int{0: {1}, 1: {2}},
		},
		{
			name:  "diamond",
			n:     4,
			edges: map[int][]int{0: {1, 2}, 1: {3}, 2: {3}},
		},
		{
			name:   "two node cycle",
			n:      2,
			edges:  map[int][]int{0: {1}, 1: {0}},
			cycles: []CircularDep{{Child: 0, Ancestor: 1}},
		},
		{
			name:   "self loop",
			n:      1,
			edges:  map[int][]int{0: {0}},
			cycles: []CircularDep{{Child: 0, Ancestor: 0}},
		},
		{
			name:   "cycle behind a chain",
			n:      4,
			edges:  map[int][]int{0: {1}, 1: {2}, 2: {3}, 3: {1}},
			cycles: []CircularDep{{Child: 1, Ancestor: 3}},
		},
		{
			name:  "independent cycles in separate components",
			n:     4,
			edges: map[int][]int{0: {1}, 1: {0}, 2: {3}, 3: {2}},
			cycles: []CircularDep{
				{Child: 0, Ancestor: 1},
				{Child: 2, Ancestor: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindCycles(modulesFromEdges(tt.n, tt.edges))
			assert.Equal(t, tt.cycles, got)
		})
	}
}

func TestFindCycles_ReportsPairFromCycle(t *testing.T) {
	// A -> B -> C -> A with an unrelated tail D
	modules := modulesFromEdges(4, map[int][]int{0: {1}, 1: {2}, 2: {0}, 3: {0}})
	inCycle := map[ModuleID]bool{0: true, 1: true, 2: true}

	cycles := FindCycles(modules)
	if assert.NotEmpty(t, cycles) {
		for _, c := range cycles {
			assert.True(t, inCycle[c.Child], "child %d not on cycle", c.Child)
			assert.True(t, inCycle[c.Ancestor], "ancestor %d not on cycle", c.Ancestor)
		}
	}
}
