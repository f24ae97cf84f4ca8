/*
 * linalg.go, part of goqsar.
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

package dense

import (
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

//AlmostZero is the fixed threshold under which a pivot is considered zero.
//It is an absolute threshold, not scaled by the machine epsilon.
const AlmostZero = 1.0e-12

//LinAlg is the linear-algebra capability the rest of the library needs.
//Callers never need to know which BLAS/LAPACK is behind it.
type LinAlg interface {
	//Gemm computes C = alpha*op(A)*op(B) + beta*C, where op(X) is X or its
	//transpose. C must have the right size and must not alias A or B.
	Gemm(tA, tB bool, alpha float64, a, b *Matrix, beta float64, c *Matrix) error

	//LUFactor factorizes the square matrix A in place, and returns the pivots.
	//It returns an error based on ErrSingular if a pivot is smaller than AlmostZero.
	LUFactor(a *Matrix) ([]int, error)

	//Invert replaces the square matrix A by its inverse. It returns an error
	//based on ErrSingular if A is singular. In that case A's contents are undefined.
	Invert(a *Matrix) error
}

//Default is the LinAlg used by the package-level functions.
var Default LinAlg = Gonum{}

//Gonum implements LinAlg using gonum's blas64 and lapack64.
type Gonum struct{}

//A column-major matrix seen as row-major is its transpose, so
//every matrix is handed to gonum as the transpose of itself.
func general(a *Matrix) blas64.General {
	stride := a.m
	if stride < 1 {
		stride = 1
	}
	return blas64.General{Rows: a.n, Cols: a.m, Stride: stride, Data: a.data[:a.m*a.n]}
}

func trans(t bool) blas.Transpose {
	if t {
		return blas.Trans
	}
	return blas.NoTrans
}

func (g Gonum) Gemm(tA, tB bool, alpha float64, a, b *Matrix, beta float64, c *Matrix) error {
	if c == a || c == b {
		return newError(ErrAliased, "Gemm", "")
	}
	am, ak := a.m, a.n
	if tA {
		am, ak = ak, am
	}
	bk, bn := b.m, b.n
	if tB {
		bk, bn = bn, bk
	}
	if ak != bk || c.m != am || c.n != bn {
		return newError(ErrShape, "Gemm", "op(A) %dx%d, op(B) %dx%d, C %dx%d", am, ak, bk, bn, c.m, c.n)
	}
	if am == 0 || bn == 0 {
		return nil
	}
	if ak == 0 {
		c.Scale(beta)
		return nil
	}
	//(op(A)op(B))^T = op(B)^T op(A)^T, and gonum sees every matrix transposed.
	blas64.Gemm(trans(tB), trans(tA), alpha, general(b), general(a), beta, general(c))
	return nil
}

func (g Gonum) LUFactor(a *Matrix) ([]int, error) {
	if a.m != a.n {
		return nil, newError(ErrNotSquare, "LUFactor", "%dx%d", a.m, a.n)
	}
	ipiv := make([]int, a.m)
	if a.m == 0 {
		return ipiv, nil
	}
	gen := general(a)
	if ok := lapack64.Getrf(gen, ipiv); !ok {
		return ipiv, newError(ErrSingular, "LUFactor", "zero pivot")
	}
	for i := 0; i < a.m; i++ {
		if math.Abs(a.data[i*a.m+i]) < AlmostZero {
			return ipiv, newError(ErrSingular, "LUFactor", "pivot %d below threshold", i)
		}
	}
	return ipiv, nil
}

func (g Gonum) Invert(a *Matrix) error {
	ipiv, err := g.LUFactor(a)
	if err != nil {
		return err
	}
	if a.m == 0 {
		return nil
	}
	gen := general(a)
	work := make([]float64, 1)
	lapack64.Getri(gen, ipiv, work, -1)
	lwork := int(work[0])
	if lwork < a.m {
		lwork = a.m
	}
	work = make([]float64, lwork)
	//The inverse of the transpose is the transpose of the inverse,
	//so the result is already in column-major order.
	if ok := lapack64.Getri(gen, ipiv, work, lwork); !ok {
		return newError(ErrSingular, "Invert", "")
	}
	return nil
}

//Gemm computes C = alpha*op(A)*op(B) + beta*C with the Default LinAlg.
func Gemm(tA, tB bool, alpha float64, a, b *Matrix, beta float64, c *Matrix) error {
	return Default.Gemm(tA, tB, alpha, a, b, beta, c)
}

//LUFactor factorizes A in place with the Default LinAlg.
func LUFactor(a *Matrix) ([]int, error) {
	return Default.LUFactor(a)
}

//Invert inverts A in place with the Default LinAlg.
func Invert(a *Matrix) error {
	return Default.Invert(a)
}

//Mul returns a new matrix with op(A)*op(B).
func Mul(tA, tB bool, a, b *Matrix) (*Matrix, error) {
	m, _ := a.Dims()
	if tA {
		_, m = a.Dims()
	}
	_, n := b.Dims()
	if tB {
		n, _ = b.Dims()
	}
	c := NewMatrix(m, n)
	if err := Gemm(tA, tB, 1, a, b, 0, c); err != nil {
		return nil, err
	}
	return c, nil
}
