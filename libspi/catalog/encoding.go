package catalog

import (
	"math"
	"time"

	"github.com/fine-structures/spi.SDK/spi"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

const (
	kResultCatalog byte = 0x01

	flagInfinite = 1 << 0
)

// catalogState is stored under gCatalogStateKey.
type catalogState struct {
	MajorVers  uint64
	MinorVers  uint64
	NumResults uint64
}

func (state *catalogState) Marshal() []byte {
	buf := proto.NewBuffer(make([]byte, 0, 16))
	buf.EncodeVarint(state.MajorVers)
	buf.EncodeVarint(state.MinorVers)
	buf.EncodeVarint(state.NumResults)
	return buf.Bytes()
}

func (state *catalogState) Unmarshal(val []byte) error {
	buf := proto.NewBuffer(val)
	var err error
	if state.MajorVers, err = buf.DecodeVarint(); err != nil {
		return errors.Wrap(spi.ErrUnmarshal, "catalog state")
	}
	if state.MinorVers, err = buf.DecodeVarint(); err != nil {
		return errors.Wrap(spi.ErrUnmarshal, "catalog state")
	}
	if state.NumResults, err = buf.DecodeVarint(); err != nil {
		return errors.Wrap(spi.ErrUnmarshal, "catalog state")
	}
	return nil
}

// appendKeyPrefix appends the leading part of a result key, which groups results by invariant and then rank.
//
// A rank of 0 is omitted, leaving a prefix that matches every rank.
func appendKeyPrefix(key []byte, inv spi.Invariant, rank int) []byte {
	buf := proto.NewBuffer(key)
	buf.EncodeVarint(uint64(kResultCatalog))
	buf.EncodeVarint(uint64(inv.Kind))
	buf.EncodeVarint(uint64(inv.Modulus))
	if rank > 0 {
		buf.EncodeVarint(uint64(rank))
	}
	return buf.Bytes()
}

// formResultKey returns the key a result for the given calculation is stored under:
//
//	kResultCatalog, kind, modulus, rank, len(word), letters (zigzag)   (all varints)
func formResultKey(key spi.ResultKey) []byte {
	buf := proto.NewBuffer(appendKeyPrefix(make([]byte, 0, 16+2*len(key.Word)), key.Invariant, key.Rank))
	appendWord(buf, key.Word)
	return buf.Bytes()
}

func parseResultKey(key []byte) (spi.ResultKey, error) {
	var rk spi.ResultKey
	buf := proto.NewBuffer(key)

	var fields [4]uint64
	for i := range fields {
		v, err := buf.DecodeVarint()
		if err != nil {
			return rk, errors.Wrap(spi.ErrUnmarshal, "result key")
		}
		fields[i] = v
	}
	if fields[0] != uint64(kResultCatalog) {
		return rk, errors.Wrap(spi.ErrUnmarshal, "not a result key")
	}
	rk.Invariant = spi.Invariant{
		Kind:    spi.InvariantKind(fields[1]),
		Modulus: int(fields[2]),
	}
	rk.Rank = int(fields[3])

	var err error
	rk.Word, err = readWord(buf)
	return rk, err
}

func appendWord(buf *proto.Buffer, w spi.Word) {
	buf.EncodeVarint(uint64(len(w)))
	for _, k := range w {
		buf.EncodeZigzag64(uint64(k))
	}
}

func readWord(buf *proto.Buffer) (spi.Word, error) {
	n, err := buf.DecodeVarint()
	if err != nil {
		return nil, errors.Wrap(spi.ErrUnmarshal, "word length")
	}
	if n == 0 {
		return nil, nil
	}
	w := make(spi.Word, n)
	for i := range w {
		k, err := buf.DecodeZigzag64()
		if err != nil {
			return nil, errors.Wrap(spi.ErrUnmarshal, "word letter")
		}
		w[i] = int(int64(k))
	}
	return w, nil
}

// marshalResult encodes the computed fields of a Result:
//
//	Value (fixed64), flags, NumSubgraphs, NumUnfolded, NumFiltered, NumRows, Elapsed (ns), MinimalWord
func marshalResult(res *spi.Result) []byte {
	buf := proto.NewBuffer(make([]byte, 0, 32+2*len(res.MinimalWord)))
	buf.EncodeFixed64(math.Float64bits(res.Value))

	flags := uint64(0)
	if res.Infinite {
		flags |= flagInfinite
	}
	buf.EncodeVarint(flags)
	buf.EncodeVarint(uint64(res.NumSubgraphs))
	buf.EncodeVarint(uint64(res.NumUnfolded))
	buf.EncodeVarint(uint64(res.NumFiltered))
	buf.EncodeVarint(uint64(res.NumRows))
	buf.EncodeVarint(uint64(res.Elapsed))
	appendWord(buf, res.MinimalWord)
	return buf.Bytes()
}

func unmarshalResult(key spi.ResultKey, val []byte) (*spi.Result, error) {
	res := &spi.Result{
		Word:      key.Word,
		Rank:      key.Rank,
		Invariant: key.Invariant,
	}

	buf := proto.NewBuffer(val)
	bits, err := buf.DecodeFixed64()
	if err != nil {
		return nil, errors.Wrap(spi.ErrUnmarshal, "result value")
	}
	res.Value = math.Float64frombits(bits)

	var fields [6]uint64
	for i := range fields {
		if fields[i], err = buf.DecodeVarint(); err != nil {
			return nil, errors.Wrap(spi.ErrUnmarshal, "result field")
		}
	}
	res.Infinite = fields[0]&flagInfinite != 0
	res.NumSubgraphs = int(fields[1])
	res.NumUnfolded = int(fields[2])
	res.NumFiltered = int(fields[3])
	res.NumRows = int(fields[4])
	res.Elapsed = time.Duration(fields[5])

	if res.MinimalWord, err = readWord(buf); err != nil {
		return nil, err
	}
	return res, nil
}
