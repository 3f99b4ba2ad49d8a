package graph

// adjacency returns the undirected neighbor list of every vertex, each in edge insertion order.
func (X *Graph) adjacency() map[VtxID][]VtxID {
	adj := make(map[VtxID][]VtxID, len(X.vtx))
	for _, e := range X.edges {
		adj[e.Start] = appendUnique(adj[e.Start], e.End)
		if !e.IsLoop() {
			adj[e.End] = appendUnique(adj[e.End], e.Start)
		}
	}
	return adj
}

// IsConnected returns true if every vertex is reachable from every other, ignoring edge direction.
//
// The empty graph is connected.
func (X *Graph) IsConnected() bool {
	if len(X.vtx) == 0 {
		return true
	}
	adj := X.adjacency()
	seen := reach(adj, X.vtx[0], make(map[VtxID]bool, len(X.vtx)))
	return len(seen) == len(X.vtx)
}

// reach does a breadth-first walk from v, returning the vertices reached in visit order.
func reach(adj map[VtxID][]VtxID, v VtxID, visited map[VtxID]bool) []VtxID {
	visited[v] = true
	queue := []VtxID{v}
	for i := 0; i < len(queue); i++ {
		for _, w := range adj[queue[i]] {
			if !visited[w] {
				visited[w] = true
				queue = append(queue, w)
			}
		}
	}
	return queue
}

// Components returns each connected component of X (ignoring edge direction) as its own induced subgraph.
//
// Components are ordered by their first vertex in X.
func (X *Graph) Components() []*Graph {
	adj := X.adjacency()
	visited := make(map[VtxID]bool, len(X.vtx))

	var comps []*Graph
	for _, v := range X.vtx {
		if visited[v] {
			continue
		}
		comps = append(comps, X.InducedSubgraph(reach(adj, v, visited)))
	}
	return comps
}

// NumComponents returns the number of connected components of X.
func (X *Graph) NumComponents() int {
	adj := X.adjacency()
	visited := make(map[VtxID]bool, len(X.vtx))

	count := 0
	for _, v := range X.vtx {
		if !visited[v] {
			reach(adj, v, visited)
			count++
		}
	}
	return count
}

// ArticulationPoints returns the vertices whose removal disconnects their component, in vertex order.
//
// A root of the depth-first walk is a cut vertex if it has 2 or more children.  Any other vertex u is a
// cut vertex if some child's low-link is at least u's discovery number.
func (X *Graph) ArticulationPoints() []VtxID {
	t := tarjan{
		adj:  X.adjacency(),
		disc: make(map[VtxID]int, len(X.vtx)),
		low:  make(map[VtxID]int, len(X.vtx)),
		cut:  make(map[VtxID]bool),
	}
	for _, v := range X.vtx {
		if _, seen := t.disc[v]; !seen {
			t.visit(v, v, true)
		}
	}

	var cuts []VtxID
	for _, v := range X.vtx {
		if t.cut[v] {
			cuts = append(cuts, v)
		}
	}
	return cuts
}

// IsBiconnected returns true if X is connected and has no articulation points.
func (X *Graph) IsBiconnected() bool {
	return X.IsConnected() && len(X.ArticulationPoints()) == 0
}

type tarjan struct {
	adj   map[VtxID][]VtxID
	disc  map[VtxID]int
	low   map[VtxID]int
	cut   map[VtxID]bool
	clock int
}

func (t *tarjan) visit(u, parent VtxID, isRoot bool) {
	t.clock++
	t.disc[u] = t.clock
	t.low[u] = t.clock

	children := 0
	for _, w := range t.adj[u] {
		if w == u || (!isRoot && w == parent) {
			continue
		}
		if _, seen := t.disc[w]; !seen {
			children++
			t.visit(w, u, false)
			if t.low[w] < t.low[u] {
				t.low[u] = t.low[w]
			}
			if !isRoot && t.low[w] >= t.disc[u] {
				t.cut[u] = true
			}
		} else if t.disc[w] < t.low[u] {
			t.low[u] = t.disc[w]
		}
	}

	if isRoot && children >= 2 {
		t.cut[u] = true
	}
}
