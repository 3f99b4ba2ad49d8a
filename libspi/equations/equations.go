package equations

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/fine-structures/spi.SDK/libspi/graph"
	"github.com/plan-systems/klog"
)

// Pair is a gluing equation: the weights of the graphs in Left sum to the weights of the graphs in Right.
type Pair struct {
	Left  []int
	Right []int
}

// Restriction lists the graphs (by index) in which some original vertex unfolds into the given partition.
type Restriction struct {
	Partition Partition
	Graphs    []int
}

// DegreeEquation returns the indices of the graphs having an edge at position 1.
func DegreeEquation(graphs []*graph.Graph) []int {
	var indices []int
	for i, X := range graphs {
		if _, ok := X.EdgeAt(1); ok {
			indices = append(indices, i)
		}
	}
	return indices
}

// Objective returns, for each graph, half its vertex count (rounded down) less its number of connected components.
func Objective(graphs []*graph.Graph) []float64 {
	c := make([]float64, len(graphs))
	for i, X := range graphs {
		c[i] = float64(X.VertexCount()/2 - X.NumComponents())
	}
	return c
}

// VertexPartitions returns, for each original vertex of X (in order of first appearance), the partition of its
// signed positions formed by the vertices of X derived from it.
func VertexPartitions(X *graph.Graph) []Partition {
	var origins []graph.VtxID
	blocks := make(map[graph.VtxID][][]int)
	for _, v := range X.Vertices() {
		orig := X.Origin(v)
		if _, seen := blocks[orig]; !seen {
			origins = append(origins, orig)
		}
		blocks[orig] = append(blocks[orig], X.Positions(v))
	}

	parts := make([]Partition, len(origins))
	for i, orig := range origins {
		parts[i] = NewPartition(blocks[orig])
	}
	return parts
}

// GluingRestrictions groups graph indices by the partitions their original vertices unfold into.
//
// The returned tree maps each Partition to its *Restriction and iterates in PartitionComparator order.
func GluingRestrictions(graphs []*graph.Graph) *redblacktree.Tree {
	tree := redblacktree.NewWith(PartitionComparator)

	for i, X := range graphs {
		for _, P := range VertexPartitions(X) {
			var r *Restriction
			if val, found := tree.Get(P); found {
				r = val.(*Restriction)
			} else {
				r = &Restriction{
					Partition: P,
				}
				tree.Put(P, r)
			}
			r.Graphs = append(r.Graphs, i)
		}
	}
	return tree
}

// GluingEquations pairs each partition with its opposite (for a word of length n), in partition order.
//
// Each partition appears in at most one Pair.  A partition whose opposite never occurs is paired with no graphs.
func GluingEquations(graphs []*graph.Graph, n int) []Pair {
	tree := GluingRestrictions(graphs)
	visited := redblacktree.NewWith(PartitionComparator)

	var pairs []Pair
	itr := tree.Iterator()
	for itr.Next() {
		P := itr.Key().(Partition)
		if _, done := visited.Get(P); done {
			continue
		}
		opp := P.Opposite(n)
		visited.Put(P, nil)
		visited.Put(opp, nil)

		pair := Pair{
			Left: itr.Value().(*Restriction).Graphs,
		}
		if val, found := tree.Get(opp); found {
			pair.Right = val.(*Restriction).Graphs
		}
		pairs = append(pairs, pair)
	}

	klog.V(2).Infof("%d gluing equations from %d partitions over %d graphs", len(pairs), tree.Size(), len(graphs))
	return pairs
}
