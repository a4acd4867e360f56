package metadata

// CircularDep is a back edge found while searching the dependency graph:
// Child is already on the current search path below Ancestor.
type CircularDep struct {
	Child    ModuleID
	Ancestor ModuleID
}

type cycleSearch struct {
	modules  []ModuleMeta
	visited  []bool // on the current path
	finished []bool // fully explored
}

// FindCycles searches the "required by" relation of modules depth first.
// For every root that leads into a cycle, the first back edge is reported.
func FindCycles(modules []ModuleMeta) []CircularDep {
	s := &cycleSearch{
		modules:  modules,
		visited:  make([]bool, len(modules)),
		finished: make([]bool, len(modules)),
	}

	var cycles []CircularDep
	for i := range modules {
		if s.finished[i] {
			continue
		}
		if dep, ok := s.visit(ModuleID(i)); ok {
			cycles = append(cycles, dep)
		}
	}
	return cycles
}

func (s *cycleSearch) visit(id ModuleID) (CircularDep, bool) {
	s.visited[id] = true

	var (
		cycle CircularDep
		found bool
	)
	for _, child := range s.modules[id].RequiredBy {
		if s.visited[child] {
			cycle, found = CircularDep{Child: child, Ancestor: id}, true
			break
		}
		if !s.finished[child] {
			if cycle, found = s.visit(child); found {
				break
			}
		}
	}

	s.visited[id] = false
	s.finished[id] = true
	return cycle, found
}
