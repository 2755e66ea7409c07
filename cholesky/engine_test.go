// SPDX-License-Identifier: MIT

package cholesky_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geosparse/cholesky"
	"github.com/katalvlaran/geosparse/sparse"
)

// recorder is a Solver that logs every call and solves diagonal systems.
type recorder struct {
	calls        []string
	views        []*cholesky.View
	startErr     error
	factorizeErr error
}

type fakeFactor struct{ diag []float64 }

func (r *recorder) Start() (cholesky.Session, error) {
	r.calls = append(r.calls, "Start")
	if r.startErr != nil {
		return nil, r.startErr
	}

	return "session", nil
}

func (r *recorder) Analyze(_ cholesky.Session, v *cholesky.View) (cholesky.Factor, error) {
	r.calls = append(r.calls, "Analyze")
	r.views = append(r.views, v)

	return &fakeFactor{diag: make([]float64, v.NRow)}, nil
}

func (r *recorder) Factorize(_ cholesky.Session, v *cholesky.View, f cholesky.Factor) error {
	r.calls = append(r.calls, "Factorize")
	if r.factorizeErr != nil {
		return r.factorizeErr
	}
	ff := f.(*fakeFactor)
	v.Do(func(row, col int, x float64) {
		if row == col {
			ff.diag[row] = x
		}
	})

	return nil
}

func (r *recorder) Solve(_ cholesky.Session, f cholesky.Factor, b []float64) ([]float64, error) {
	r.calls = append(r.calls, "Solve")
	ff := f.(*fakeFactor)
	x := make([]float64, len(b))
	for i := range b {
		x[i] = b[i] / ff.diag[i]
	}

	return x, nil
}

func (r *recorder) FreeFactor(cholesky.Session, cholesky.Factor) error {
	r.calls = append(r.calls, "FreeFactor")
	return nil
}

func (r *recorder) Finish(cholesky.Session) error {
	r.calls = append(r.calls, "Finish")
	return nil
}

// diagonal returns the Full CRS matrix diag(d...).
func diagonal(t *testing.T, d ...float64) *sparse.CRSMatrix[float64] {
	t.Helper()
	idx := make([]int, len(d))
	for i := range idx {
		idx[i] = i
	}
	m, err := sparse.NewMapMatrixFromTriplets(idx, idx, d)
	require.NoError(t, err)
	a, err := sparse.NewCRSMatrixFromMap(m)
	require.NoError(t, err)

	return a
}

// TestEngine_LifecycleAndTeardownOrder checks the call sequence, view
// aliasing and idempotent Close.
func TestEngine_LifecycleAndTeardownOrder(t *testing.T) {
	a := diagonal(t, 2, 4, 8)
	rec := &recorder{}

	e, err := cholesky.New(a, cholesky.WithSolver(rec))
	require.NoError(t, err)
	require.Equal(t, cholesky.Factorized, e.State())
	require.True(t, e.Available())
	require.Equal(t, 3, e.Dim())
	require.Equal(t, 3, e.NNZ())
	require.Equal(t, []string{"Start", "Analyze", "Factorize"}, rec.calls)

	vals, err := a.Values()
	require.NoError(t, err)
	ptr, _ := a.Ptr()
	view := rec.views[0]
	require.Same(t, &vals[0], &view.Values[0], "view must alias matrix values")
	require.Same(t, &ptr[0], &view.Ptr[0], "view must alias matrix ptr")
	require.Equal(t, cholesky.STypeUpper, view.SType)
	require.True(t, view.Sorted)

	rhs := []float64{2, 4, 8}
	x, err := e.SolveNew(rhs)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 1}, x)
	require.Equal(t, []float64{2, 4, 8}, rhs)

	require.NoError(t, e.Close())
	require.Equal(t, []string{"Start", "Analyze", "Factorize", "Solve", "FreeFactor", "Finish"}, rec.calls)
	require.Nil(t, e.View())
	require.Equal(t, cholesky.Closed, e.State())

	// idempotent; the matrix survives
	require.NoError(t, e.Close())
	require.Len(t, rec.calls, 6)
	require.True(t, a.Valid())
	require.Equal(t, 3, a.NNZ())

	err = e.Solve(rhs, make([]float64, 3))
	require.ErrorIs(t, err, cholesky.ErrClosed)
	require.ErrorIs(t, e.Refactorize(), cholesky.ErrClosed)
}

// TestEngine_Refactorize picks up new values through a fresh view.
func TestEngine_Refactorize(t *testing.T) {
	a := diagonal(t, 1, 1)
	rec := &recorder{}
	e, err := cholesky.New(a, cholesky.WithSolver(rec))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, a.Scale(4))
	require.NoError(t, e.Refactorize())
	require.Equal(t, []string{"Start", "Analyze", "Factorize", "FreeFactor", "Analyze", "Factorize"}, rec.calls)
	require.Len(t, rec.views, 2)
	require.NotSame(t, rec.views[0], rec.views[1])

	x, err := e.SolveNew([]float64{4, 8})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, x)
}

// TestEngine_Degenerate covers the no-solver path.
func TestEngine_Degenerate(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	reg := prometheus.NewRegistry()
	metrics := cholesky.NewMetrics(reg)

	e, err := cholesky.New(diagonal(t, 1, 2), cholesky.WithSolver(nil),
		cholesky.WithLogger(log), cholesky.WithMetrics(metrics))
	require.NoError(t, err)
	require.Equal(t, cholesky.Degenerate, e.State())
	require.False(t, e.Available())
	require.Equal(t, 1, strings.Count(buf.String(), "level=WARN"))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Degenerate()))

	rhs := []float64{7, 9}
	dst := []float64{-1, -1}
	err = e.Solve(rhs, dst)
	require.ErrorIs(t, err, cholesky.ErrUnavailable)
	require.Equal(t, []float64{7, 9}, rhs)
	require.Equal(t, []float64{-1, -1}, dst)

	_, err = e.SolveNew(rhs)
	require.ErrorIs(t, err, cholesky.ErrUnavailable)
	require.ErrorIs(t, e.Refactorize(), cholesky.ErrUnavailable)
	require.NoError(t, e.Close())
	require.Equal(t, cholesky.Closed, e.State())
	require.Equal(t, 1, strings.Count(buf.String(), "level=WARN"))
}

// TestEngine_StartFailureDegrades treats a session failure like a missing solver.
func TestEngine_StartFailureDegrades(t *testing.T) {
	rec := &recorder{startErr: errors.New("no license")}
	e, err := cholesky.New(diagonal(t, 1), cholesky.WithSolver(rec))
	require.NoError(t, err)
	require.Equal(t, cholesky.Degenerate, e.State())
	require.NoError(t, e.Close())
	require.Equal(t, []string{"Start"}, rec.calls)
}

// TestEngine_FactorizeFailure releases the session and reports the cause.
func TestEngine_FactorizeFailure(t *testing.T) {
	rec := &recorder{factorizeErr: cholesky.ErrNotPositiveDefinite}
	reg := prometheus.NewRegistry()
	metrics := cholesky.NewMetrics(reg)

	_, err := cholesky.New(diagonal(t, 1), cholesky.WithSolver(rec), cholesky.WithMetrics(metrics))
	require.ErrorIs(t, err, cholesky.ErrNotPositiveDefinite)
	require.Equal(t, []string{"Start", "Analyze", "Factorize", "FreeFactor", "Finish"}, rec.calls)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Factorizations("not_positive_definite")))
}

// TestEngine_Validation rejects unusable matrices before touching the solver.
func TestEngine_Validation(t *testing.T) {
	rec := &recorder{}

	_, err := cholesky.New(nil, cholesky.WithSolver(rec))
	require.ErrorIs(t, err, cholesky.ErrBadView)

	_, err = cholesky.New(sparse.NewCRSMatrix[float64](sparse.Full), cholesky.WithSolver(rec))
	require.ErrorIs(t, err, sparse.ErrInvalidMatrix)

	m := sparse.NewMapMatrix[float64](2, 3, sparse.Full)
	require.NoError(t, m.Set(0, 0, 1))
	rect, err := sparse.NewCRSMatrixFromMap(m)
	require.NoError(t, err)
	_, err = cholesky.New(rect, cholesky.WithSolver(rec))
	require.ErrorIs(t, err, cholesky.ErrNonSquare)
	require.Empty(t, rec.calls)

	e, err := cholesky.New(diagonal(t, 1, 1), cholesky.WithSolver(rec))
	require.NoError(t, err)
	err = e.Solve([]float64{1}, make([]float64, 2))
	require.ErrorIs(t, err, sparse.ErrDimensionMismatch)
}

// TestView_Triangles checks which entries each symmetry tag exposes.
func TestView_Triangles(t *testing.T) {
	full, err := sparse.NewMapMatrixFromTriplets([]int{0, 0, 1, 1}, []int{0, 1, 0, 1}, []float64{4, 1, 1, 3})
	require.NoError(t, err)
	a, err := sparse.NewCRSMatrixFromMap(full)
	require.NoError(t, err)

	v, err := cholesky.NewView(a)
	require.NoError(t, err)
	require.NoError(t, v.Validate())
	var seen [][2]int
	v.Do(func(r, c int, _ float64) { seen = append(seen, [2]int{r, c}) })
	require.Equal(t, [][2]int{{0, 0}, {0, 1}, {1, 1}}, seen)

	lower := sparse.NewMapMatrix[float64](2, 2, sparse.Lower)
	require.NoError(t, lower.Set(0, 0, 4))
	require.NoError(t, lower.Set(1, 0, 1))
	require.NoError(t, lower.Set(1, 1, 3))
	b, err := sparse.NewCRSMatrixFromMap(lower)
	require.NoError(t, err)
	v, err = cholesky.NewView(b)
	require.NoError(t, err)
	require.Equal(t, cholesky.STypeLower, v.SType)
	seen = nil
	v.Do(func(r, c int, _ float64) { seen = append(seen, [2]int{r, c}) })
	require.Equal(t, [][2]int{{0, 0}, {1, 0}, {1, 1}}, seen)

	index, err := b.Index()
	require.NoError(t, err)
	values, err := b.Values()
	require.NoError(t, err)
	require.Same(t, &index[0], &v.Index[0])
	require.Same(t, &values[0], &v.Values[0])

	_, err = cholesky.NewView(sparse.NewCRSMatrix[float64](sparse.Full))
	require.ErrorIs(t, err, cholesky.ErrBadView)
	b.Clear()
	_, err = cholesky.NewView(b)
	require.ErrorIs(t, err, cholesky.ErrBadView)
	require.ErrorIs(t, err, sparse.ErrInvalidMatrix)
	require.ErrorIs(t, (*cholesky.View)(nil).Validate(), cholesky.ErrBadView)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "factorized", cholesky.Factorized.String())
	require.Equal(t, "degenerate", cholesky.Degenerate.String())
	require.Equal(t, "State(9)", cholesky.State(9).String())
}
