/*
 * matrix.go, part of goqsar.
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
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a dense matrix of float64 stored in column-major order with
//a leading dimension equal to the number of rows. The logical size (m, n)
//can be anything up to the allocated capacity (maxM, maxN).
type Matrix struct {
	m, n       int
	maxM, maxN int
	data       []float64
}

//NewMatrix returns a zero-filled m x n matrix with capacity m x n.
func NewMatrix(m, n int) *Matrix {
	return NewMatrixCap(m, n, m, n)
}

//NewMatrixCap returns a zero-filled m x n matrix that can grow up to maxM x maxN
//without reallocation. It panics if the logical size exceeds the capacity.
func NewMatrixCap(m, n, maxM, maxN int) *Matrix {
	if m < 0 || n < 0 {
		panic(ErrNegativeSize)
	}
	if m > maxM || n > maxN {
		panic(ErrShape)
	}
	return &Matrix{m: m, n: n, maxM: maxM, maxN: maxN, data: make([]float64, maxM*maxN)}
}

//NewMatrixData returns an m x n matrix that uses data, in column-major order, as
//its backing slice. It panics if len(data) is not m*n.
func NewMatrixData(m, n int, data []float64) *Matrix {
	if m < 0 || n < 0 {
		panic(ErrNegativeSize)
	}
	if len(data) != m*n {
		panic(ErrShape)
	}
	return &Matrix{m: m, n: n, maxM: m, maxN: n, data: data}
}

//FromMat returns a new Matrix with a copy of the contents of a.
func FromMat(a mat.Matrix) *Matrix {
	r, c := a.Dims()
	ret := NewMatrix(r, c)
	for j := 0; j < c; j++ {
		col := ret.Col(j)
		for i := range col {
			col[i] = a.At(i, j)
		}
	}
	return ret
}

//Dims returns the logical size of the matrix.
func (A *Matrix) Dims() (int, int) {
	return A.m, A.n
}

//Caps returns the allocated capacity of the matrix.
func (A *Matrix) Caps() (int, int) {
	return A.maxM, A.maxN
}

//At returns the element at row i, column j.
func (A *Matrix) At(i, j int) float64 {
	if uint(i) >= uint(A.m) || uint(j) >= uint(A.n) {
		panic(ErrIndexOutOfRange)
	}
	return A.data[j*A.m+i]
}

//Set sets the element at row i, column j to v.
func (A *Matrix) Set(i, j int, v float64) {
	if uint(i) >= uint(A.m) || uint(j) >= uint(A.n) {
		panic(ErrIndexOutOfRange)
	}
	A.data[j*A.m+i] = v
}

//T returns the transpose of the matrix, without copying.
func (A *Matrix) T() mat.Matrix {
	return mat.Transpose{Matrix: A}
}

//Col returns the column j as a slice that shares the storage of the matrix.
//Changes in the slice are reflected in the matrix and vice-versa.
func (A *Matrix) Col(j int) []float64 {
	if uint(j) >= uint(A.n) {
		panic(ErrIndexOutOfRange)
	}
	return A.data[j*A.m : (j+1)*A.m : (j+1)*A.m]
}

//SetCol copies v in the column j. It panics if len(v) is not the number of rows.
func (A *Matrix) SetCol(j int, v []float64) {
	if len(v) != A.m {
		panic(ErrShape)
	}
	copy(A.Col(j), v)
}

//Row copies row i in dst, which is allocated if nil, and returns it.
func (A *Matrix) Row(dst []float64, i int) []float64 {
	if uint(i) >= uint(A.m) {
		panic(ErrIndexOutOfRange)
	}
	if dst == nil {
		dst = make([]float64, A.n)
	}
	if len(dst) != A.n {
		panic(ErrShape)
	}
	for j := range dst {
		dst[j] = A.data[j*A.m+i]
	}
	return dst
}

//Raw returns the logical part of the backing slice, in column-major order.
func (A *Matrix) Raw() []float64 {
	return A.data[:A.m*A.n]
}

//Resize changes the logical size of the matrix. If the new size fits in
//the capacity, no memory is allocated. Otherwise the matrix grows.
//If the number of rows doesn't change, the contents of the columns that
//remain are kept. If it does change, the contents are undefined and the
//caller is expected to fill the matrix.
func (A *Matrix) Resize(m, n int) error {
	if m < 0 || n < 0 {
		return newError(ErrNegativeSize, "Resize", "%d x %d", m, n)
	}
	if m <= A.maxM && n <= A.maxN {
		A.m, A.n = m, n
		return nil
	}
	maxM, maxN := A.maxM, A.maxN
	if m > maxM {
		maxM = m
	}
	if n > maxN {
		maxN = n
	}
	data := make([]float64, maxM*maxN)
	if m == A.m {
		copy(data, A.data[:A.m*A.n])
	}
	A.data = data
	A.m, A.n = m, n
	A.maxM, A.maxN = maxM, maxN
	return nil
}

//Zero sets all the elements of the logical matrix to zero.
func (A *Matrix) Zero() {
	d := A.Raw()
	for i := range d {
		d[i] = 0
	}
}

//Clone returns a copy of the matrix with capacity equal to its logical size.
func (A *Matrix) Clone() *Matrix {
	ret := NewMatrix(A.m, A.n)
	copy(ret.data, A.Raw())
	return ret
}

//Copy puts a copy of B in the receiver, resizing it as needed.
func (A *Matrix) Copy(B mat.Matrix) {
	r, c := B.Dims()
	A.Resize(r, c) //can't fail, sizes come from a matrix.
	if b, ok := B.(*Matrix); ok {
		copy(A.data, b.Raw())
		return
	}
	for j := 0; j < c; j++ {
		col := A.Col(j)
		for i := range col {
			col[i] = B.At(i, j)
		}
	}
}

//SomeCols copies the first cols columns of A in the receiver, resizing it.
func (A *Matrix) SomeCols(B *Matrix, cols int) {
	if cols > B.n {
		panic(ErrShape)
	}
	A.Resize(B.m, cols)
	copy(A.data, B.data[:B.m*cols])
}

//Scale multiplies all the elements of the matrix by f.
func (A *Matrix) Scale(f float64) {
	d := A.Raw()
	for i := range d {
		d[i] *= f
	}
}

//Dense returns a row-major gonum copy of the matrix.
func (A *Matrix) Dense() *mat.Dense {
	if A.m == 0 || A.n == 0 {
		return &mat.Dense{}
	}
	ret := mat.NewDense(A.m, A.n, nil)
	ret.Copy(A)
	return ret
}

func (A *Matrix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d (cap %dx%d)\n", A.m, A.n, A.maxM, A.maxN)
	for i := 0; i < A.m; i++ {
		for j := 0; j < A.n; j++ {
			fmt.Fprintf(&b, " %12.6g", A.data[j*A.m+i])
		}
		b.WriteString("\n")
	}
	return b.String()
}
