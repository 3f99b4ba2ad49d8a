package spi

// GraphStream is a stage of a graph pipeline.  Each stage drains its upstream Outlet and closes its own Outlet when done.
type GraphStream struct {
	Outlet chan GraphState
}

func (stream *GraphStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// PullAll drains this stream and returns the number of graphs received.
func (stream *GraphStream) PullAll() int {
	count := 0
	for range stream.Outlet {
		count++
	}
	return count
}

// Select passes on only the graphs for which keep returns true.
func (stream *GraphStream) Select(keep func(X GraphState) bool) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan GraphState, 1),
	}

	go func() {
		for X := range stream.Outlet {
			if keep(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}

// SelectFromCatalog streams the Results in the given catalog that meet the given criteria.
func SelectFromCatalog(cat Catalog, sel ResultSelector) <-chan *Result {
	out := make(chan *Result, 4)

	go func() {
		cat.Select(sel, out)
		close(out)
	}()

	return out
}
