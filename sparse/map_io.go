// SPDX-License-Identifier: MIT

package sparse

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// formatScalar renders v in its shortest exact round-trip form.
func formatScalar[V Scalar](v V) string {
	switch x := any(v).(type) {
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case complex64:
		return strconv.FormatComplex(complex128(x), 'g', -1, 64)
	case complex128:
		return strconv.FormatComplex(x, 'g', -1, 128)
	}

	return ""
}

// formatScientific renders v with 14 fractional digits in exponent form.
func formatScientific[V Scalar](v V) string {
	switch x := any(v).(type) {
	case float32:
		return strconv.FormatFloat(float64(x), 'e', 14, 32)
	case float64:
		return strconv.FormatFloat(x, 'e', 14, 64)
	case complex64:
		return strconv.FormatComplex(complex128(x), 'e', 14, 64)
	case complex128:
		return strconv.FormatComplex(x, 'e', 14, 128)
	}

	return ""
}

// parseScalar is the inverse of formatScalar and also accepts the scientific form.
func parseScalar[V Scalar](s string) (V, error) {
	var zero V
	switch any(zero).(type) {
	case float32:
		f, err := strconv.ParseFloat(s, 32)
		return any(float32(f)).(V), err
	case float64:
		f, err := strconv.ParseFloat(s, 64)
		return any(f).(V), err
	case complex64:
		c, err := strconv.ParseComplex(s, 64)
		return any(complex64(c)).(V), err
	case complex128:
		c, err := strconv.ParseComplex(s, 128)
		return any(c).(V), err
	}

	return zero, ErrMalformedInput
}

// Save writes one "row\tcol\tvalue" line per stored nonzero in (row, col)
// order. Values use the shortest representation that parses back exactly.
func (m *MapMatrix[V]) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var err error
	m.Do(func(r, c int, v V) bool {
		_, err = fmt.Fprintf(bw, "%d\t%d\t%s\n", r, c, formatScalar(v))

		return err == nil
	})
	if err != nil {
		return opErrorf(kindMap, "Save", err)
	}
	if err = bw.Flush(); err != nil {
		return opErrorf(kindMap, "Save", err)
	}

	return nil
}

// SaveFile writes the matrix to path in the Save format.
func (m *MapMatrix[V]) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("MapMatrix.SaveFile(%q): %w", path, err)
	}
	if err = m.Save(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("MapMatrix.SaveFile(%q): %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("MapMatrix.SaveFile(%q): %w", path, err)
	}

	return nil
}

// LoadMapMatrix reads the Save format. Columns may be separated by tabs or
// spaces; blank lines are ignored. Dimensions are inferred as the largest
// row and column index seen plus one. The result is tagged Full.
//
// Errors:
//   - ErrMalformedInput naming the offending line.
func LoadMapMatrix[V Scalar](r io.Reader, opts ...Option) (*MapMatrix[V], error) {
	var (
		entries    []Entry[V]
		maxR, maxC = -1, -1
	)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("LoadMapMatrix: line %d: want 3 fields, got %d: %w", line, len(fields), ErrMalformedInput)
		}
		row, errR := strconv.Atoi(fields[0])
		col, errC := strconv.Atoi(fields[1])
		val, errV := parseScalar[V](fields[2])
		if errR != nil || errC != nil || errV != nil || row < 0 || col < 0 {
			return nil, fmt.Errorf("LoadMapMatrix: line %d: %q: %w", line, sc.Text(), ErrMalformedInput)
		}
		entries = append(entries, Entry[V]{Row: row, Col: col, Val: val})
		maxR, maxC = max(maxR, row), max(maxC, col)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("LoadMapMatrix: %w", err)
	}

	m := NewMapMatrix[V](maxR+1, maxC+1, Full, opts...)
	for _, e := range entries {
		if err := m.Set(e.Row, e.Col, e.Val); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// LoadMapMatrixFile opens path and delegates to LoadMapMatrix.
func LoadMapMatrixFile[V Scalar](path string, opts ...Option) (*MapMatrix[V], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadMapMatrixFile(%q): %w", path, err)
	}
	defer f.Close()

	m, err := LoadMapMatrix[V](f, opts...)
	if err != nil {
		return nil, fmt.Errorf("LoadMapMatrixFile(%q): %w", path, err)
	}

	return m, nil
}

// ImportColumns merges a dense binary block into the receiver.
// MAIN DESCRIPTION:
//   - Header: uint32 rows, uint32 cols (little endian).
//   - Body: rows·cols values of the element type, row-major, little endian.
//   - Each value with |v| > dropTol is written with Set at (i, j+colOffset).
//
// Behavior highlights:
//   - The receiver is not resized; the block must fit at the given offset.
//   - A truncated body fails with ErrMalformedInput after the values read so
//     far have been applied.
//
// Complexity:
//   - Time O(rows·cols·log nnz).
func (m *MapMatrix[V]) ImportColumns(r io.Reader, dropTol float64, colOffset int) error {
	br := bufio.NewReader(r)
	var hdr [2]uint32
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("MapMatrix.ImportColumns: header: %w: %v", ErrMalformedInput, err)
	}
	rows, cols := int(hdr[0]), int(hdr[1])

	kept := 0
	var val V
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if err := binary.Read(br, binary.LittleEndian, &val); err != nil {
				return fmt.Errorf("MapMatrix.ImportColumns: value (%d,%d) of %dx%d: %w: %v",
					i, j, rows, cols, ErrMalformedInput, err)
			}
			if abs(val) <= dropTol {
				continue
			}
			if err := m.Set(i, j+colOffset, val); err != nil {
				return err
			}
			kept++
		}
	}
	m.logger().Debug("imported column block", "rows", rows, "cols", cols, "offset", colOffset, "kept", kept)

	return nil
}

// ImportColumnsFile opens path and delegates to ImportColumns.
func (m *MapMatrix[V]) ImportColumnsFile(path string, dropTol float64, colOffset int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("MapMatrix.ImportColumnsFile(%q): %w", path, err)
	}
	defer f.Close()

	if err = m.ImportColumns(f, dropTol, colOffset); err != nil {
		return fmt.Errorf("MapMatrix.ImportColumnsFile(%q): %w", path, err)
	}

	return nil
}
