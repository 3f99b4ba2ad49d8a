package graph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fine-structures/spi.SDK/spi"
)

var (
	quote   = []byte("\"")
	comma   = []byte(",")
	newline = []byte("\n")
)

// WriteAsString implements spi.GraphState.
func (X *Graph) WriteAsString(out io.Writer, opts spi.PrintOpts) {
	fmt.Fprintf(out, "v=%d,e=%d,", X.VertexCount(), X.EdgeCount())

	if opts.Graph {
		X.WriteAsGraphExprStr(out, opts.Origin)
	}
	if opts.Matrix {
		X.WriteAsMatrixStr(out)
	}
}

func (X *Graph) String() string {
	b := strings.Builder{}
	X.WriteAsGraphExprStr(&b, false)
	return b.String()
}

// WriteAsGraphExprStr writes the adjacency list of X, e.g. "1:[-2#3] -1:[2#1]".
//
// Each outgoing edge is written as end#pos.  If withOrigin is set, each vertex is followed by its origin in parens.
func (X *Graph) WriteAsGraphExprStr(out io.Writer, withOrigin bool) {
	var buf []byte

	buf = append(buf, quote...)
	for i, v := range X.vtx {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(v), 10)
		if withOrigin {
			buf = append(buf, '(')
			buf = strconv.AppendInt(buf, int64(X.origin[v]), 10)
			buf = append(buf, ')')
		}
		buf = append(buf, ':', '[')
		n := 0
		for _, e := range X.edges {
			if e.Start != v {
				continue
			}
			if n > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(e.End), 10)
			buf = append(buf, '#')
			buf = strconv.AppendInt(buf, int64(e.Pos), 10)
			n++
		}
		buf = append(buf, ']')
	}
	buf = append(buf, quote...)
	buf = append(buf, comma...)
	out.Write(buf)
}

// WriteAsMatrixStr writes the adjacency matrix of X where entry (i,j) is the number of edges from vertex i to vertex j.
func (X *Graph) WriteAsMatrixStr(out io.Writer) {
	Nv := len(X.vtx)
	idx := make(map[VtxID]int, Nv)
	for i, v := range X.vtx {
		idx[v] = i
	}

	Xm := make([]int, Nv*Nv)
	for _, e := range X.edges {
		Xm[idx[e.End]+idx[e.Start]*Nv]++
	}

	var buf []byte
	buf = append(buf, "\"{"...)
	for row := 0; row < Nv; row++ {
		if row > 0 {
			buf = append(buf, comma...)
		}
		buf = append(buf, '{')
		for j := 0; j < Nv; j++ {
			if j > 0 {
				buf = append(buf, comma...)
			}
			buf = strconv.AppendInt(buf, int64(Xm[j+row*Nv]), 10)
		}
		buf = append(buf, '}')
	}
	buf = append(buf, "}\","...)
	out.Write(buf)
}

// Println writes the given label, X with its origins, and a newline.
func (X *Graph) Println(out io.Writer, label string) {
	if len(label) > 0 {
		out.Write([]byte(label))
	}
	X.WriteAsString(out, spi.PrintOpts{Graph: true, Origin: true})
	out.Write(newline)
}
