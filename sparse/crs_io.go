// SPDX-License-Identifier: MIT

package sparse

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Save writes one "row\tcol\tvalue" line per slot in storage order, values
// in scientific notation with 14 fractional digits. Explicit zeros are written.
func (m *CRSMatrix[V]) Save(w io.Writer) error {
	if err := m.mustBeValid("Save"); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	var err error
	m.Do(func(r, c int, v V) bool {
		_, err = fmt.Fprintf(bw, "%d\t%d\t%s\n", r, c, formatScientific(v))

		return err == nil
	})
	if err != nil {
		return opErrorf(kindCRS, "Save", err)
	}
	if err = bw.Flush(); err != nil {
		return opErrorf(kindCRS, "Save", err)
	}

	return nil
}

// SaveFile writes the matrix to path in the Save format.
func (m *CRSMatrix[V]) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("CRSMatrix.SaveFile(%q): %w", path, err)
	}
	if err = m.Save(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("CRSMatrix.SaveFile(%q): %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("CRSMatrix.SaveFile(%q): %w", path, err)
	}

	return nil
}
