/*
 * model.go, part of goqsar.
 *
 * Copyright 2024 The goqsar Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package pls

import (
	"fmt"
	"math"

	"github.com/rmera/goqsar/dense"
	"gonum.org/v1/gonum/floats"
)

const (
	Tolerance = 1.0e-10
	MaxIter   = 500
)

//Model is a PLS model. Columns of the matrices are components.
//W, WStar and P are (X variables x PCs), C is (responses x PCs) and
//T and U are (objects x PCs).
type Model struct {
	PCs   int
	W     *dense.Matrix //X-weights
	WStar *dense.Matrix //X-weights corrected for the deflation, W(P'W)^-1
	P     *dense.Matrix //X-loadings
	C     *dense.Matrix //Y-loadings
	T     *dense.Matrix //X-scores
	U     *dense.Matrix //Y-scores

	//StarFallback is true if P'W was singular, so WStar is a copy of W.
	StarFallback bool
	//Iterations used by NIPALS for each component. MaxIter+1 means it didn't converge.
	Iterations []int
}

func newModel(n, nx, ny, pcs int) *Model {
	return &Model{
		PCs:        pcs,
		W:          dense.NewMatrix(nx, pcs),
		P:          dense.NewMatrix(nx, pcs),
		C:          dense.NewMatrix(ny, pcs),
		T:          dense.NewMatrix(n, pcs),
		U:          dense.NewMatrix(n, pcs),
		Iterations: make([]int, pcs),
	}
}

//Converged returns whether NIPALS converged for component k (0-based).
func (M *Model) Converged(k int) bool {
	return M.Iterations[k] <= MaxIter
}

//MaxPCs returns the largest number of components that can be extracted
//from n centered objects with nx variables.
func MaxPCs(n, nx int) int {
	if n-1 < nx {
		return n - 1
	}
	return nx
}

//Build returns a PLS model with pcs components for the centered (and weighted)
//matrices x and y, which are not modified.
func Build(x, y *dense.Matrix, pcs int) (*Model, error) {
	n, nx := x.Dims()
	yn, ny := y.Dims()
	if yn != n {
		return nil, fmt.Errorf("%w: X has %d rows, Y has %d", ErrShape, n, yn)
	}
	if ny == 0 {
		return nil, ErrNoResponses
	}
	if pcs < 1 {
		return nil, ErrNoComponents
	}
	if max := MaxPCs(n, nx); pcs > max {
		return nil, fmt.Errorf("%w: %d requested, at most %d for %d objects and %d variables", ErrTooManyPCs, pcs, max, n, nx)
	}
	X := x.Clone()
	Y := y.Clone()
	M := newModel(n, nx, ny, pcs)
	for k := 0; k < pcs; k++ {
		M.Iterations[k] = M.component(k, X, Y)
	}
	M.WStar, M.StarFallback = StarWeights(M.W, M.P)
	return M, nil
}

//component extracts component k from the residuals X and Y, and deflates them.
//It returns the number of iterations used.
func (M *Model) component(k int, X, Y *dense.Matrix) int {
	n, nx := X.Dims()
	_, ny := Y.Dims()
	w, p, c, t, u := M.W.Col(k), M.P.Col(k), M.C.Col(k), M.T.Col(k), M.U.Col(k)
	wm, pm, cm := dense.NewMatrixData(nx, 1, w), dense.NewMatrixData(nx, 1, p), dense.NewMatrixData(ny, 1, c)
	tm, um := dense.NewMatrixData(n, 1, t), dense.NewMatrixData(n, 1, u)

	//start from the response with the largest residual sum of squares.
	best, bestss := 0, -1.0
	for j := 0; j < ny; j++ {
		col := Y.Col(j)
		if ss := floats.Dot(col, col); ss > bestss {
			best, bestss = j, ss
		}
	}
	if bestss < dense.AlmostZero {
		return 0
	}
	copy(u, Y.Col(best))
	told := make([]float64, n)
	var tt float64
	iter := 1
	for ; iter <= MaxIter; iter++ {
		mul(true, false, 1, X, um, 0, wm)
		nw := floats.Norm(w, 2)
		if nw < dense.AlmostZero {
			zero(w, p, c, t, u)
			return iter
		}
		floats.Scale(1/nw, w)
		mul(false, false, 1, X, wm, 0, tm)
		tt = floats.Dot(t, t)
		if tt < dense.AlmostZero {
			zero(w, p, c, t, u)
			return iter
		}
		mul(true, false, 1/tt, Y, tm, 0, cm)
		cc := floats.Dot(c, c)
		if cc < dense.AlmostZero {
			//Y is exhausted, u keeps its last value.
			break
		}
		mul(false, false, 1/cc, Y, cm, 0, um)
		if iter > 1 && floats.Distance(t, told, 2) < Tolerance*math.Sqrt(tt) {
			break
		}
		copy(told, t)
	}
	mul(true, false, 1/tt, X, tm, 0, pm)
	mul(false, true, -1, tm, pm, 1, X)
	mul(false, true, -1, tm, cm, 1, Y)
	return iter
}

//StarWeights returns W(P'W)^-1. If P'W is singular, it returns
//a copy of W, and true.
func StarWeights(W, P *dense.Matrix) (*dense.Matrix, bool) {
	nx, k := W.Dims()
	ptw := dense.NewMatrix(k, k)
	mul(true, false, 1, P, W, 0, ptw)
	if err := dense.Invert(ptw); err != nil {
		return W.Clone(), true
	}
	ws := dense.NewMatrix(nx, k)
	mul(false, false, 1, W, ptw, 0, ws)
	return ws, false
}

//mul calls dense.Gemm with operands whose shapes are fixed when a model is
//allocated, so an error is a bug.
func mul(tA, tB bool, alpha float64, a, b *dense.Matrix, beta float64, c *dense.Matrix) {
	if err := dense.Gemm(tA, tB, alpha, a, b, beta, c); err != nil {
		panic(err)
	}
}

func zero(s ...[]float64) {
	for _, v := range s {
		for i := range v {
			v[i] = 0
		}
	}
}
