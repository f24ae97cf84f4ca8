/*
 * probe.go, part of goqsar.
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

package extern

import (
	"fmt"
	"math"

	"github.com/rmera/goqsar"
)

//coulomb is the conversion factor to get kcal/mol from charges in e and distances in A.
const coulomb = 332.0636

//Probe is an in-process engine that computes force-field steric and electrostatic
//fields by placing a probe atom on each node of the grid.
//
//The steric term is a 12-6 Lennard-Jones potential with an equilibrium distance equal to
//the sum of the van der Waals radii of the probe and the atom. The electrostatic term
//is a Coulomb potential with a distance-dependent dielectric (4r).
//Both are truncated to +/- Cap. Atoms with zero or unknown charges are ignored in the
//electrostatic field.
type Probe struct {
	Radius  float64 //van der Waals radius of the probe, in A
	Epsilon float64 //well depth for the steric term, in kcal/mol
	Charge  float64 //charge of the probe, in e
	Cap     float64 //absolute value at which energies are truncated, in kcal/mol
}

//NewProbe returns a probe that works as an sp3 carbon with a +1 charge,
//truncating energies at 30 kcal/mol.
func NewProbe() *Probe {
	return &Probe{Radius: 1.7, Epsilon: 0.1, Charge: 1.0, Cap: 30.0}
}

//Compute returns the steric or electrostatic field of mol on the grid. dir is not used.
func (P *Probe) Compute(mol *qsar.Object, grid GridSpec, kind FieldKind, dir string) ([]float64, error) {
	if err := checkAtoms("probe", mol); err != nil {
		return nil, err
	}
	if kind != Steric && kind != Electrostatic {
		return nil, &Error{kind: Unsupported, program: "probe", input: mol.Name, message: fmt.Sprintf("can't compute %s fields", kind), deco: []string{"Probe.Compute"}, critical: true}
	}
	radii := make([]float64, len(mol.Atoms))
	for i, at := range mol.Atoms {
		radii[i], _ = qsar.VdwRadius(at.Symbol)
	}
	ret := make([]float64, grid.Len())
	for i := range ret {
		node := grid.Node(i)
		var e float64
		for j, at := range mol.Atoms {
			r := dist(node, at.Coords)
			if r < 1e-6 {
				e = P.Cap
				if kind == Electrostatic {
					e = math.Copysign(P.Cap, at.Charge*P.Charge)
				}
				break
			}
			if kind == Steric {
				r0 := (P.Radius + radii[j]) / r
				r6 := r0 * r0 * r0 * r0 * r0 * r0
				e += P.Epsilon * (r6*r6 - 2*r6)
			} else {
				e += coulomb * at.Charge * P.Charge / (4 * r * r)
			}
		}
		ret[i] = truncate(e, P.Cap)
	}
	return ret, nil
}

func dist(a, b [3]float64) float64 {
	x, y, z := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(x*x + y*y + z*z)
}

func truncate(e, lim float64) float64 {
	if lim <= 0 {
		return e
	}
	if e > lim {
		return lim
	}
	if e < -lim {
		return -lim
	}
	return e
}
