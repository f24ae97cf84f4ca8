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

/*Package store writes and reads the binary files where goqsar keeps its models.

A model file is little-endian and has this layout:

	int32                     number of components (PCs) of the model
	int32                     number of responses (ny)
	int32                     number of objects (n)
	int32 x n                 index of each object, ascending
	for pc = PCs down to 0:
		for each response:
			float64 x nx      regression coefficients
		for each response:
			float64 x n       recalculated response, +Inf if undefined

All the blocks have the same size, so any of them can be read directly, and nx
is obtained from the size of the file.

A coefficient archive has an int32 with the number of blocks (PCs+1) followed by
the coefficient part of each block, in the same order. Archives are compressed
depending on the extension of their names: zstd for ".zst", lz4 for ".lz4". Other
names are not compressed.

Files are written under a temporary name and renamed when complete. A file that
failed to be written is removed, so a file with the final name is always complete.
*/
package store
