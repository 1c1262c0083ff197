package dbmigrate

import (
	"errors"
	"sort"
)

// DependencyGraph is a directed graph over script names.  Nodes are indices
// into a name-sorted arena and an edge a -> b means a depends on b, so b must
// be deployed before a.  It is immutable once built.
type DependencyGraph struct {
	scripts []ScriptArtifact
	index   map[string]int
	deps    [][]int // by node index, sorted ascending
}

// BuildDependencyGraph builds the graph for the full script set of a run.
// Every declared dependency must name a script of the set.
func BuildDependencyGraph(scripts []ScriptArtifact) (*DependencyGraph, error) {
	sorted := make([]ScriptArtifact, len(scripts))
	copy(sorted, scripts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var errs []error
	index := make(map[string]int, len(sorted))
	for i, script := range sorted {
		if _, exists := index[script.Name]; exists {
			errs = append(errs, newError(ErrDuplicateName, script.Name, "declared more than once"))
			continue
		}

		index[script.Name] = i
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	deps := make([][]int, len(sorted))
	for i, script := range sorted {
		for _, name := range script.Dependencies {
			j, ok := index[name]
			if !ok {
				errs = append(errs, newError(ErrUnresolvedDependency, script.Name, "depends on unknown script '%v'", name))
				continue
			}

			deps[i] = append(deps[i], j)
		}

		sort.Ints(deps[i])
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &DependencyGraph{scripts: sorted, index: index, deps: deps}, nil
}

// Len returns the number of nodes in the graph.
func (g *DependencyGraph) Len() int {
	return len(g.scripts)
}

// Script returns the script with the provided name.
func (g *DependencyGraph) Script(name string) (ScriptArtifact, bool) {
	i, ok := g.index[name]
	if !ok {
		return ScriptArtifact{}, false
	}

	return g.scripts[i], true
}

// Names returns every node name in ascending order.
func (g *DependencyGraph) Names() []string {
	names := make([]string, len(g.scripts))
	for i, script := range g.scripts {
		names[i] = script.Name
	}

	return names
}

// DependenciesOf returns the names the provided script depends on, in
// ascending order.
func (g *DependencyGraph) DependenciesOf(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}

	names := make([]string, len(g.deps[i]))
	for k, j := range g.deps[i] {
		names[k] = g.scripts[j].Name
	}

	return names
}
