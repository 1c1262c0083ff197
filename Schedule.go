package dbmigrate

import "iter"

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

// Schedule is a validated deployment order over a DependencyGraph.  Every
// script appears after all of its dependencies, and scripts without an ordering
// constraint between them appear in name order.
type Schedule struct {
	graph *DependencyGraph
	order []int
}

// NewSchedule orders the graph, failing with ErrCyclicDependency when the graph
// contains a cycle.  The traversal is iterative, so deep graphs cannot exhaust
// the stack.
func NewSchedule(graph *DependencyGraph) (*Schedule, error) {
	type frame struct {
		node int
		next int
	}

	state := make([]visitState, graph.Len())
	order := make([]int, 0, graph.Len())
	var stack []frame

	for root := range graph.scripts {
		if state[root] != unvisited {
			continue
		}

		state[root] = inProgress
		stack = append(stack[:0], frame{node: root})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(graph.deps[top.node]) {
				state[top.node] = done
				order = append(order, top.node)
				stack = stack[:len(stack)-1]
				continue
			}

			dep := graph.deps[top.node][top.next]
			top.next++

			switch state[dep] {
			case unvisited:
				state[dep] = inProgress
				stack = append(stack, frame{node: dep})
			case inProgress:
				var path []string
				for k := len(stack) - 1; k >= 0; k-- {
					path = append(path, graph.scripts[stack[k].node].Name)
					if stack[k].node == dep {
						break
					}
				}

				// path runs from the dependent back to dep; reverse it so it
				// reads along the depends-on edges and closes on its start.
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}

				return nil, cycleError(append(path, path[0]))
			}
		}
	}

	return &Schedule{graph: graph, order: order}, nil
}

// Len returns the number of scripts in the schedule.
func (s *Schedule) Len() int {
	return len(s.order)
}

// Order returns the script names in deployment order.
func (s *Schedule) Order() []string {
	names := make([]string, len(s.order))
	for i, node := range s.order {
		names[i] = s.graph.scripts[node].Name
	}

	return names
}

// All yields the scripts in deployment order.  The sequence can be ranged over
// any number of times.
func (s *Schedule) All() iter.Seq2[int, ScriptArtifact] {
	return func(yield func(int, ScriptArtifact) bool) {
		for i, node := range s.order {
			if !yield(i, s.graph.scripts[node]) {
				return
			}
		}
	}
}
