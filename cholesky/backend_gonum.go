// SPDX-License-Identifier: MIT

//go:build !nocholesky

package cholesky

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/geosparse/ordering"
)

func defaultSolver() Solver { return GonumSolver{} }

// GonumSolver factorizes with gonum's banded Cholesky after a reverse
// Cuthill–McKee permutation shrinks the band.
// Analyze: O(nnz·log) ordering; Factorize: O(n·k²) for half-bandwidth k.
type GonumSolver struct{}

var _ Solver = GonumSolver{}

type gonumSession struct {
	open bool
}

type gonumFactor struct {
	n    int
	perm ordering.Permutation
	k    int
	chol mat.BandCholesky
	b, x *mat.VecDense
	out  []float64
}

func sessionOf(s Session) (*gonumSession, error) {
	gs, ok := s.(*gonumSession)
	if !ok || gs == nil || !gs.open {
		return nil, fmt.Errorf("gonum backend: session not started")
	}

	return gs, nil
}

func factorOf(f Factor) (*gonumFactor, error) {
	gf, ok := f.(*gonumFactor)
	if !ok || gf == nil {
		return nil, fmt.Errorf("gonum backend: foreign factor %T", f)
	}

	return gf, nil
}

// Start opens a session.
func (GonumSolver) Start() (Session, error) { return &gonumSession{open: true}, nil }

// Analyze orders the symmetrized pattern of v and records the bandwidth.
func (GonumSolver) Analyze(s Session, v *View) (Factor, error) {
	if _, err := sessionOf(s); err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if v.NRow != v.NCol {
		return nil, ErrNonSquare
	}
	adj, err := ordering.FromCSR(v.NRow, v.Ptr, v.Index)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadView, err)
	}
	perm, err := ordering.RCM(adj)
	if err != nil {
		return nil, err
	}

	return &gonumFactor{
		n:    v.NRow,
		perm: perm,
		k:    ordering.Bandwidth(adj, perm),
		b:    mat.NewVecDense(v.NRow, nil),
		x:    mat.NewVecDense(v.NRow, nil),
		out:  make([]float64, v.NRow),
	}, nil
}

// Factorize scatters the selected triangle of v into the permuted band and
// runs the band Cholesky. Repeated entries accumulate.
func (GonumSolver) Factorize(s Session, v *View, f Factor) error {
	if _, err := sessionOf(s); err != nil {
		return err
	}
	gf, err := factorOf(f)
	if err != nil {
		return err
	}
	if v.NRow != gf.n {
		return fmt.Errorf("%w: view has %d rows, factor was analyzed for %d", ErrBadView, v.NRow, gf.n)
	}

	band := mat.NewSymBandDense(gf.n, gf.k, nil)
	inv := gf.perm.Inv
	v.Do(func(row, col int, x float64) {
		p, q := inv[row], inv[col]
		band.SetSymBand(p, q, band.At(p, q)+x)
	})
	if ok := gf.chol.Factorize(band); !ok {
		return ErrNotPositiveDefinite
	}

	return nil
}

// Solve permutes b, solves the banded system and permutes back.
// Ill-conditioning is not an error: gonum still returns the solution.
func (GonumSolver) Solve(s Session, f Factor, b []float64) ([]float64, error) {
	if _, err := sessionOf(s); err != nil {
		return nil, err
	}
	gf, err := factorOf(f)
	if err != nil {
		return nil, err
	}
	if len(b) != gf.n {
		return nil, fmt.Errorf("gonum backend: rhs length %d, want %d", len(b), gf.n)
	}

	for newIdx, old := range gf.perm.Perm {
		gf.b.SetVec(newIdx, b[old])
	}
	if err := gf.chol.SolveVecTo(gf.x, gf.b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, err
		}
	}
	for newIdx, old := range gf.perm.Perm {
		gf.out[old] = gf.x.AtVec(newIdx)
	}

	return gf.out, nil
}

// FreeFactor drops the numeric factor.
func (GonumSolver) FreeFactor(s Session, f Factor) error {
	gf, err := factorOf(f)
	if err != nil {
		return err
	}
	gf.chol.Reset()
	gf.b, gf.x, gf.out = nil, nil, nil

	return nil
}

// Finish closes the session.
func (GonumSolver) Finish(s Session) error {
	gs, err := sessionOf(s)
	if err != nil {
		return err
	}
	gs.open = false

	return nil
}
