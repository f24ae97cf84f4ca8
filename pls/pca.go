/*
 * pca.go, part of goqsar.
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

//PCAModel is a principal component model. T is (objects x PCs) and P, whose
//columns have unit norm, is (variables x PCs).
type PCAModel struct {
	PCs       int
	T, P      *dense.Matrix
	Explained *dense.Vector //fraction of the total sum of squares explained by each component
}

//PCA returns the first pcs principal components of the centered matrix x, which is not modified.
func PCA(x *dense.Matrix, pcs int) (*PCAModel, error) {
	n, nx := x.Dims()
	if pcs < 1 {
		return nil, ErrNoComponents
	}
	if pcs > n || pcs > nx {
		return nil, fmt.Errorf("%w: %d requested for %d objects and %d variables", ErrTooManyPCs, pcs, n, nx)
	}
	X := x.Clone()
	raw := X.Raw()
	total := floats.Dot(raw, raw)
	M := &PCAModel{PCs: pcs, T: dense.NewMatrix(n, pcs), P: dense.NewMatrix(nx, pcs), Explained: dense.NewVector(pcs)}
	told := make([]float64, n)
	for k := 0; k < pcs; k++ {
		t, p := M.T.Col(k), M.P.Col(k)
		tm, pm := dense.NewMatrixData(n, 1, t), dense.NewMatrixData(nx, 1, p)
		best, bestss := 0, -1.0
		for j := 0; j < nx; j++ {
			col := X.Col(j)
			if ss := floats.Dot(col, col); ss > bestss {
				best, bestss = j, ss
			}
		}
		if bestss < dense.AlmostZero {
			continue
		}
		copy(t, X.Col(best))
		var tt float64
		for iter := 1; iter <= MaxIter; iter++ {
			tt = floats.Dot(t, t)
			mul(true, false, 1/tt, X, tm, 0, pm)
			floats.Scale(1/floats.Norm(p, 2), p)
			copy(told, t)
			mul(false, false, 1, X, pm, 0, tm)
			tt = floats.Dot(t, t)
			if floats.Distance(t, told, 2) < Tolerance*math.Sqrt(tt) {
				break
			}
		}
		mul(false, true, -1, tm, pm, 1, X)
		if total > 0 {
			M.Explained.Set(k, tt/total)
		}
	}
	return M, nil
}
