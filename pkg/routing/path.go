package routing

import "github.com/azybler/map_distance/pkg/graph"

// Path returns the node sequence of a shortest path from -> to together with
// its length. The path is nil and the length Infinity when to is
// unreachable.
func (e *Engine) Path(from, to graph.NodeID) ([]graph.NodeID, Dist, error) {
	d, err := e.Distance(from, to)
	if err != nil || d == Infinity {
		return nil, Infinity, err
	}
	if from == to {
		return []graph.NodeID{from}, 0, nil
	}

	// Trace predecessors back to the source, then reverse.
	var path []graph.NodeID
	for node := to; ; node = e.pred[node] {
		path = append(path, node)
		if node == from {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, d, nil
}
