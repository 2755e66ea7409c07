// Package geosparse is the sparse linear-algebra core of a finite-element
// toolkit: build a system matrix from a mesh, keep it in compressed form and
// hand it, by reference, to a direct Cholesky solver.
//
// What is in the box?
//
//	• Two matrix forms: an ordered map for incremental assembly and
//	  compressed rows for multiply and solve, with exact conversion
//	• Symmetric storage: keep only the lower or upper triangle
//	• Two-phase assembly: symbolic pattern from mesh connectivity, then
//	  numeric fill from element matrices
//	• A factorization engine that aliases the compressed arrays and tears
//	  down in a fixed order
//
// Packages:
//
//	sparse/        MapMatrix, CRSMatrix, symmetry tags, text and binary I/O
//	mesh/          simplex meshes and structured grid generators
//	fem/           element matrices; P1 stiffness and mass
//	ordering/      BFS levels, reverse Cuthill–McKee, bandwidth
//	cholesky/      Engine, View, Solver backends (gonum band Cholesky)
//	spy/           sparsity-pattern plots
//	matstore/      named matrices in BadgerDB
//	config/        YAML configuration
//	logging/       slog set-up for binaries
//	cmd/geosparse  command-line front end
//
// Quick example:
//
//	m, _ := mesh.NewGrid2D(values, mesh.DefaultGridOptions())
//	asm, _ := fem.NewAssembler(m)
//	k := sparse.NewCRSMatrix[float64](sparse.Lower)
//	_ = k.BuildPattern(m)
//	_ = k.FillStiffness(m, asm, nil)
//	e, _ := cholesky.New(k)
//	defer e.Close()
//	x, _ := e.SolveNew(b)
//
// Building with -tags nocholesky drops the solver backend; engines then
// report themselves unavailable instead of failing to build.
package geosparse
