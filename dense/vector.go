/*
 * vector.go, part of goqsar.
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

import "sort"

//Vector is a resizable slice of float64 with a logical length and a capacity.
//It is used for per-PC aggregates such as R2, Q2 or SDEP.
type Vector struct {
	n    int
	data []float64
}

//NewVector returns a zero-filled vector of length n.
func NewVector(n int) *Vector {
	if n < 0 {
		panic(ErrNegativeSize)
	}
	return &Vector{n: n, data: make([]float64, n)}
}

//NewVectorData returns a vector backed by data.
func NewVectorData(data []float64) *Vector {
	return &Vector{n: len(data), data: data}
}

func (V *Vector) Len() int { return V.n }

func (V *Vector) Cap() int { return len(V.data) }

func (V *Vector) At(i int) float64 {
	if uint(i) >= uint(V.n) {
		panic(ErrIndexOutOfRange)
	}
	return V.data[i]
}

func (V *Vector) Set(i int, v float64) {
	if uint(i) >= uint(V.n) {
		panic(ErrIndexOutOfRange)
	}
	V.data[i] = v
}

//Raw returns the logical part of the backing slice.
func (V *Vector) Raw() []float64 {
	return V.data[:V.n]
}

//Resize changes the logical length, growing the storage only if needed.
//The first min(old, new) elements are kept.
func (V *Vector) Resize(n int) error {
	if n < 0 {
		return newError(ErrNegativeSize, "Vector.Resize", "%d", n)
	}
	if n > len(V.data) {
		d := make([]float64, n)
		copy(d, V.data[:V.n])
		V.data = d
	}
	V.n = n
	return nil
}

func (V *Vector) Zero() {
	d := V.Raw()
	for i := range d {
		d[i] = 0
	}
}

func (V *Vector) Clone() *Vector {
	d := make([]float64, V.n)
	copy(d, V.Raw())
	return NewVectorData(d)
}

//Index is a resizable list of indexes. It is used for object, variable
//and group lists, and for permutations.
type Index struct {
	n    int
	data []int
}

//NewIndex returns the identity permutation of length n.
func NewIndex(n int) *Index {
	if n < 0 {
		panic(ErrNegativeSize)
	}
	d := make([]int, n)
	for i := range d {
		d[i] = i
	}
	return &Index{n: n, data: d}
}

//NewIndexData returns an index backed by data.
func NewIndexData(data []int) *Index {
	return &Index{n: len(data), data: data}
}

func (I *Index) Len() int { return I.n }

func (I *Index) Cap() int { return len(I.data) }

func (I *Index) At(i int) int {
	if uint(i) >= uint(I.n) {
		panic(ErrIndexOutOfRange)
	}
	return I.data[i]
}

func (I *Index) Set(i, v int) {
	if uint(i) >= uint(I.n) {
		panic(ErrIndexOutOfRange)
	}
	I.data[i] = v
}

func (I *Index) Swap(i, j int) {
	I.data[i], I.data[j] = I.data[j], I.data[i]
}

func (I *Index) Less(i, j int) bool {
	return I.data[i] < I.data[j]
}

//Sort sorts the index in ascending order.
func (I *Index) Sort() {
	sort.Sort(I)
}

//Append adds v at the end, growing the storage if needed.
func (I *Index) Append(v int) {
	if I.n < len(I.data) {
		I.data[I.n] = v
	} else {
		I.data = append(I.data[:I.n], v)
		I.data = I.data[:cap(I.data)]
	}
	I.n++
}

//Resize changes the logical length, growing the storage only if needed.
func (I *Index) Resize(n int) error {
	if n < 0 {
		return newError(ErrNegativeSize, "Index.Resize", "%d", n)
	}
	if n > len(I.data) {
		d := make([]int, n)
		copy(d, I.data[:I.n])
		I.data = d
	}
	I.n = n
	return nil
}

//Raw returns the logical part of the backing slice.
func (I *Index) Raw() []int {
	return I.data[:I.n]
}

//Position returns the position of v in the index, or -1 if v is not present.
func (I *Index) Position(v int) int {
	for i, w := range I.Raw() {
		if w == v {
			return i
		}
	}
	return -1
}
