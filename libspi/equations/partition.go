package equations

import (
	"sort"
	"strconv"
	"strings"
)

// Partition is a set partition of signed word positions in canonical form:
// each block is sorted ascending and blocks are sorted lexicographically.
type Partition [][]int

// NewPartition returns the canonical form of the given blocks (which are left unchanged).
func NewPartition(blocks [][]int) Partition {
	P := make(Partition, len(blocks))
	for i, b := range blocks {
		P[i] = append([]int(nil), b...)
		sort.Ints(P[i])
	}
	sort.Slice(P, func(i, j int) bool {
		return compareBlocks(P[i], P[j]) < 0
	})
	return P
}

func compareBlocks(A, B []int) int {
	for i, a := range A {
		if i == len(B) {
			return 1
		}
		if d := a - B[i]; d != 0 {
			return d
		}
	}
	if len(A) < len(B) {
		return -1
	}
	return 0
}

// PartitionComparator orders canonical Partitions lexicographically by block.
func PartitionComparator(A, B interface{}) int {
	PA := A.(Partition)
	PB := B.(Partition)

	for i, a := range PA {
		if i == len(PB) {
			return 1
		}
		if d := compareBlocks(a, PB[i]); d != 0 {
			return d
		}
	}
	if len(PA) < len(PB) {
		return -1
	}
	return 0
}

// Key returns a printable encoding of P, e.g. "{-4,3}{-2,1}".
func (P Partition) Key() string {
	b := strings.Builder{}
	for _, block := range P {
		b.WriteByte('{')
		for i, p := range block {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(p))
		}
		b.WriteByte('}')
	}
	return b.String()
}

func (P Partition) String() string {
	return P.Key()
}

// Opposite returns the canonical partition obtained by applying OppositePos to every position of P.
func (P Partition) Opposite(n int) Partition {
	blocks := make([][]int, len(P))
	for i, block := range P {
		blocks[i] = make([]int, len(block))
		for j, p := range block {
			blocks[i][j] = OppositePos(p, n)
		}
	}
	return NewPartition(blocks)
}

// OppositePos maps a signed position of a word of length n to the position on the other side of the same
// letter transition:  p > 1 maps to -(p-1), 1 maps to -n, -n < p <= -1 maps to -p+1, and -n maps to 1.
//
// OppositePos is an involution on {-n..-1, 1..n}.
func OppositePos(p, n int) int {
	switch {
	case p > 1:
		return -(p - 1)
	case p == 1:
		return -n
	case p > -n && p <= -1:
		return -p + 1
	}
	return 1
}
