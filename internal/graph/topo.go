package graph

// TopoOrder returns all node ids such that every dependency precedes its
// dependents. Nodes without an ordering constraint keep insertion order.
func (g *Graph) TopoOrder() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.topoOrder()
}

type color int

const (
	unvisited color = iota
	inProgress
	done
)

func (g *Graph) topoOrder() ([]string, error) {
	marks := make(map[string]color, len(g.order))
	out := make([]string, 0, len(g.order))
	// stack is the current DFS path, used to report cycle members.
	var stack []string

	var visit func(id, referrer string) error
	visit = func(id, referrer string) error {
		if _, ok := g.nodes[id]; !ok {
			return &UnknownNodeError{ID: id, Referrer: referrer}
		}
		switch marks[id] {
		case done:
			return nil
		case inProgress:
			start := len(stack) - 1
			for stack[start] != id {
				start--
			}
			return &CycleError{Members: append([]string(nil), stack[start:]...)}
		}

		marks[id] = inProgress
		stack = append(stack, id)

		deps := g.predecessors(id)
		// Visit dependencies in graph insertion order so the result does not
		// depend on how DependsOn was written.
		for _, dep := range g.inInsertionOrder(deps) {
			if err := visit(dep, id); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		marks[id] = done
		out = append(out, id)
		return nil
	}

	for _, id := range g.order {
		if marks[id] == unvisited {
			if err := visit(id, ""); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// inInsertionOrder sorts ids by their position in g.order. Unknown ids are
// kept at the end in their given order so visit can report them.
func (g *Graph) inInsertionOrder(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]string, 0, len(ids))
	for _, id := range g.order {
		if want[id] {
			out = append(out, id)
			delete(want, id)
		}
	}
	for _, id := range ids {
		if want[id] {
			out = append(out, id)
		}
	}
	return out
}
