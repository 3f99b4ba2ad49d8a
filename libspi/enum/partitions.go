package enum

// SetPartitions returns every set partition of items (Bell(len(items)) of them).
//
// Partitions are emitted in canonical order: each item in turn joins each existing block (in block order)
// before it opens a new block.  Blocks list their items in the order given.
func SetPartitions(items []int) [][][]int {
	var parts [][][]int
	p := partitioner{
		items: items,
		emit: func(blocks [][]int) {
			parts = append(parts, blocks)
		},
	}
	p.next(0)
	return parts
}

// UnfoldingPartitions returns the set partitions of items having no single-item block, in canonical order.
func UnfoldingPartitions(items []int) [][][]int {
	var parts [][][]int
	p := partitioner{
		items:        items,
		noSingletons: true,
		emit: func(blocks [][]int) {
			parts = append(parts, blocks)
		},
	}
	p.next(0)
	return parts
}

type partitioner struct {
	items        []int
	noSingletons bool
	blocks       [][]int
	emit         func(blocks [][]int)
}

func (p *partitioner) singletons() int {
	n := 0
	for _, b := range p.blocks {
		if len(b) == 1 {
			n++
		}
	}
	return n
}

func (p *partitioner) next(i int) {
	if p.noSingletons && p.singletons() > len(p.items)-i {
		return
	}

	if i == len(p.items) {
		if p.noSingletons && p.singletons() > 0 {
			return
		}
		out := make([][]int, len(p.blocks))
		for j, b := range p.blocks {
			out[j] = append([]int(nil), b...)
		}
		p.emit(out)
		return
	}

	item := p.items[i]
	for j := range p.blocks {
		p.blocks[j] = append(p.blocks[j], item)
		p.next(i + 1)
		p.blocks[j] = p.blocks[j][:len(p.blocks[j])-1]
	}

	p.blocks = append(p.blocks, []int{item})
	p.next(i + 1)
	p.blocks = p.blocks[:len(p.blocks)-1]
}
