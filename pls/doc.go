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

/*Package pls builds partial least squares (PLS) and principal component (PCA) models
with the NIPALS algorithm, on top of the column-major matrices of the dense package.

A Model is built for a number of components, and can then produce the
regression coefficients and the recalculated responses for any smaller number
of components, down to zero (the mean model). Emit does that, from the largest
number of components to zero, handing each block to a BlockSink, such as a model file.

Thresholds are fixed: NIPALS stops when the change in the scores is smaller than
Tolerance (relative to their norm) or after MaxIter iterations, and norms smaller than
dense.AlmostZero are taken as zero.
*/
package pls
