// SPDX-License-Identifier: MIT

package matstore

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/katalvlaran/geosparse/sparse"
)

// Record layout, little endian:
//
//	magic "GSCR" | version u8 | symmetry u8 | rows u32 | cols u32 | nnz u32 |
//	ptr [rows+1]i32 | index [nnz]i32 | values [nnz]f64
const (
	magic         = "GSCR"
	formatVersion = 1
)

type header struct {
	Magic    [4]byte
	Version  uint8
	Symmetry uint8
	Rows     uint32
	Cols     uint32
	NNZ      uint32
}

// Encode serializes a valid compressed matrix.
func Encode(a *sparse.CRSMatrix[float64]) ([]byte, error) {
	ptr, err := a.Ptr()
	if err != nil {
		return nil, err
	}
	index, _ := a.Index()
	values, _ := a.Values()

	h := header{
		Version:  formatVersion,
		Symmetry: uint8(a.Symmetry()),
		Rows:     uint32(a.Rows()),
		Cols:     uint32(a.Cols()),
		NNZ:      uint32(len(index)),
	}
	copy(h.Magic[:], magic)

	var buf bytes.Buffer
	buf.Grow(binary.Size(h) + 4*(len(ptr)+len(index)) + 8*len(values))
	for _, part := range []any{h, ptr, index, values} {
		if err := binary.Write(&buf, binary.LittleEndian, part); err != nil {
			return nil, fmt.Errorf("matstore: encode: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// Decode rebuilds a matrix from Encode's output; opts configure the result.
// The arrays are validated by sparse.NewCRSMatrixFromArrays.
func Decode(data []byte, opts ...sparse.Option) (*sparse.CRSMatrix[float64], error) {
	r := bytes.NewReader(data)
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}
	if string(h.Magic[:]) != magic || h.Version != formatVersion {
		return nil, fmt.Errorf("%w: magic %q version %d", ErrCorrupt, h.Magic[:], h.Version)
	}
	sym := sparse.Symmetry(h.Symmetry)
	if sym != sparse.Full && sym != sparse.Lower && sym != sparse.Upper {
		return nil, fmt.Errorf("%w: symmetry %d", ErrCorrupt, h.Symmetry)
	}
	want := 4*(int64(h.Rows)+1) + 12*int64(h.NNZ)
	if int64(r.Len()) != want {
		return nil, fmt.Errorf("%w: %d payload bytes, want %d", ErrCorrupt, r.Len(), want)
	}

	ptr := make([]int32, h.Rows+1)
	index := make([]int32, h.NNZ)
	values := make([]float64, h.NNZ)
	for _, part := range []any{ptr, index, values} {
		if err := binary.Read(r, binary.LittleEndian, part); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}

	a, err := sparse.NewCRSMatrixFromArrays(int(h.Rows), int(h.Cols), ptr, index, values, sym, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return a, nil
}
