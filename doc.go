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

/*Package qsar is the root package of the goqsar library. It provides the objects (molecules)
a 3D-QSAR data set is built from, the element table used for atom typing, a small XYZ writer,
the YAML configuration and the logger shared by the sub-packages.


	**goqsar components**

    dense: column-major matrices and vectors with a logical size and a capacity,
	plus GEMM/LU/inverse on top of gonum's blas64 and lapack64.

    pool: the claim-based worker pool used to compute fields and to run
	cross-validation folds in parallel.

    extern: the contract for the external programs that compute molecular
	interaction fields, and a generic driver for them.

    field: molecular interaction field values, variable masks, and the assembly
	of the X and Y matrices used for modeling.

    pls: NIPALS PLS and PCA, star weights and per-PC coefficients.

    store: the binary model file and the coefficient archive.

    cv: leave-one-out, leave-two-out and leave-many-out cross-validation.

    project: glues the above together for a data set.

*/
package qsar
