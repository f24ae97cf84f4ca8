/*
 * doc.go, part of goqsar.
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

/*Package dense implements the numeric containers used by goqsar: a column-major Matrix,
a Vector and an Index (a list of indexes or a permutation). All of them have a logical size
and an allocated capacity, so they can be resized in place without reallocation as long as the
new size fits in the capacity.

Matrix implements gonum's mat.Matrix interface, so it can be used with the gonum/mat
functions. The heavy operations (GEMM, LU factorization and inversion) go through the
LinAlg interface, which is implemented on top of gonum's blas64 and lapack64. The BLAS
implementation used by blas64 can be changed with blas64.Use.
*/
package dense
