// SPDX-License-Identifier: MIT

package sparse_test

import (
	"fmt"
	"os"

	"github.com/katalvlaran/geosparse/sparse"
)

// ExampleMapMatrix builds a small matrix incrementally and compresses it.
func ExampleMapMatrix() {
	m := sparse.NewMapMatrix[float64](3, 3, sparse.Full)
	_ = m.Add(0, 0, 4)
	_ = m.Add(0, 1, -1)
	_ = m.Add(1, 0, -1)
	_ = m.Add(1, 1, 4)
	_ = m.Set(2, 2, 1)

	crs, err := sparse.NewCRSMatrixFromMap(m)
	if err != nil {
		fmt.Println(err)
		return
	}
	y, _ := crs.Mul([]float64{1, 1, 1})
	fmt.Println(crs.NNZ(), y)
	// Output: 5 [3 3 1]
}

// ExampleMapMatrix_Save prints the text persistence format.
func ExampleMapMatrix_Save() {
	m := sparse.NewMapMatrix[float64](2, 2, sparse.Lower)
	_ = m.Set(1, 0, 0.5)
	_ = m.Set(0, 1, 7) // upper half of a Lower matrix: dropped
	_ = m.Save(os.Stdout)
	// Output: 1	0	0.5
}

// ExampleCRSMatrix_BuildPattern shows the symbolic/numeric split.
func ExampleCRSMatrix_BuildPattern() {
	mesh := triMesh{nodes: 3, cells: [][]int{{0, 1}, {1, 2}}}
	a := sparse.NewCRSMatrix[float64](sparse.Full)
	_ = a.BuildPattern(mesh)
	ptr, _ := a.Ptr()
	fmt.Println(ptr, a.NNZ())

	_ = a.Add(1, 1, 2)
	_ = a.Add(1, 2, -1)
	v, _ := a.Get(1, 2, false)
	fmt.Println(v)
	// Output:
	// [0 2 5 7] 7
	// -1
}
