package schema

import "strings"

// DefaultMaxHops bounds relationship traversal when no limit is configured.
const DefaultMaxHops = 5

// FindPath returns the shortest directed parent-to-child path from one
// object to another. The search is breadth-first; among paths of equal
// length the one using earlier-registered edges wins. Paths longer than
// maxHops are reported as PathTooDeep, never returned.
func (g *Graph) FindPath(from, to string, maxHops int) ([]Edge, error) {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	start, err := g.LookupObject(from)
	if err != nil {
		return nil, err
	}
	goal, err := g.LookupObject(to)
	if err != nil {
		return nil, err
	}

	startKey := strings.ToLower(start.Name)
	goalKey := strings.ToLower(goal.Name)
	visited := []pathStep{{object: startKey, edge: -1, prev: -1}}
	seen := map[string]bool{startKey: true}

	// Objects are visited once, so the search terminates on cyclic graphs.
	for head := 0; head < len(visited); head++ {
		cur := visited[head]
		for _, n := range g.from[cur.object] {
			child := strings.ToLower(g.edges[n].Child)
			if child == goalKey {
				path := g.unwind(visited, head, n)
				if len(path) > maxHops {
					return nil, &PathError{Code: PathTooDeep, From: start.Name, To: goal.Name, MaxHops: maxHops, Hops: len(path)}
				}
				return path, nil
			}
			if seen[child] {
				continue
			}
			seen[child] = true
			visited = append(visited, pathStep{object: child, edge: n, prev: head})
		}
	}
	return nil, &PathError{Code: PathNotFound, From: start.Name, To: goal.Name, MaxHops: maxHops}
}

type pathStep struct {
	object string // lower-case
	edge   int    // edge used to reach object, -1 for start
	prev   int    // index into visited, -1 for start
}

// unwind rebuilds the path ending with edge last, taken from visited[head].
func (g *Graph) unwind(visited []pathStep, head, last int) []Edge {
	var rev []Edge
	rev = append(rev, g.edges[last])
	for i := head; visited[i].prev >= 0; i = visited[i].prev {
		rev = append(rev, g.edges[visited[i].edge])
	}
	path := make([]Edge, len(rev))
	for i, e := range rev {
		path[len(rev)-1-i] = e
	}
	return path
}
