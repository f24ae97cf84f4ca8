/*
 * atomicdata.go, part of goqsar.
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

package qsar

//vdwRadius holds the van der Waals radii, in A, of the elements that
//goqsar can type. Main-group values are Bondi's (10.1021/j100785a001),
//with Mantina et al. (10.1021/jp8111556) for the elements Bondi lacks.
//Metal ions use the radii from 10.1023/A:1011625728803.
//An atom with a symbol not in this table is an unknown atom type.
var vdwRadius = map[string]float64{
	"H":  1.10,
	"B":  1.92,
	"C":  1.70,
	"N":  1.55,
	"O":  1.52,
	"F":  1.47,
	"Si": 2.10,
	"P":  1.80,
	"S":  1.80,
	"Cl": 1.75,
	"Se": 1.90,
	"Br": 1.83,
	"I":  1.98,
	"Na": 2.27,
	"K":  2.75,
	"Mg": 1.73,
	"Ca": 2.31,
	"Zn": 2.02,
}

//KnownSymbol returns true if the element symbol is in the element table.
//External engines refuse to run molecules with unknown atom types.
func KnownSymbol(symbol string) bool {
	_, ok := vdwRadius[symbol]
	return ok
}

//VdwRadius returns the van der Waals radius in A for the element symbol, and whether the symbol was found.
func VdwRadius(symbol string) (float64, bool) {
	r, ok := vdwRadius[symbol]
	return r, ok
}
