/*
 * engine.go, part of goqsar.
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
	"strings"

	"github.com/rmera/goqsar"
)

//FieldKind is the kind of molecular interaction field to compute.
type FieldKind int

const (
	Steric        FieldKind = iota //force-field steric probe
	Electrostatic                  //force-field electrostatic probe
	QMPotential                    //ab-initio electrostatic potential
	QMDensity                      //ab-initio electron density
	Cosmo                          //COSMO charge density on the surface
	MDGrid                         //empirical MD-grid potential
)

var kindNames = []string{"steric", "electrostatic", "qm-potential", "qm-density", "cosmo", "md-grid"}

func (k FieldKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

//ParseKind returns the FieldKind for a name as given by String.
func ParseKind(s string) (FieldKind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(s, n) {
			return FieldKind(i), nil
		}
	}
	return 0, fmt.Errorf("goqsar/extern: unknown field kind %q", s)
}

//GridSpec is a regular 3D grid. Nodes are numbered with x running fastest,
//then y, then z.
type GridSpec struct {
	Origin [3]float64
	Step   float64
	Nodes  [3]int
}

//NewGridSpec returns the grid described in the configuration.
func NewGridSpec(c qsar.GridConfig) GridSpec {
	return GridSpec{Origin: c.Origin, Step: c.Step, Nodes: c.Nodes}
}

//Len returns the number of nodes in the grid.
func (G GridSpec) Len() int {
	return G.Nodes[0] * G.Nodes[1] * G.Nodes[2]
}

//Node returns the cartesian coordinates of node i.
func (G GridSpec) Node(i int) [3]float64 {
	nx, ny := G.Nodes[0], G.Nodes[1]
	ix := i % nx
	iy := (i / nx) % ny
	iz := i / (nx * ny)
	return [3]float64{
		G.Origin[0] + float64(ix)*G.Step,
		G.Origin[1] + float64(iy)*G.Step,
		G.Origin[2] + float64(iz)*G.Step,
	}
}

func (G GridSpec) String() string {
	return fmt.Sprintf("origin %.4f %.4f %.4f step %.4f nodes %d %d %d", G.Origin[0], G.Origin[1], G.Origin[2], G.Step, G.Nodes[0], G.Nodes[1], G.Nodes[2])
}

//Engine computes one field for one molecule. It returns one value per node of
//the grid, or an error, normally an *Error. Compute blocks until the
//value are available. dir is a directory owned by this call.
type Engine interface {
	Compute(mol *qsar.Object, grid GridSpec, kind FieldKind, dir string) ([]float64, error)
}

//Func allows to use a function as an Engine.
type Func func(mol *qsar.Object, grid GridSpec, kind FieldKind, dir string) ([]float64, error)

func (f Func) Compute(mol *qsar.Object, grid GridSpec, kind FieldKind, dir string) ([]float64, error) {
	return f(mol, grid, kind, dir)
}

//checkAtoms returns an UnknownAtom error for the first atom with a symbol that
//is not in the element table.
func checkAtoms(program string, mol *qsar.Object) error {
	for i, at := range mol.Atoms {
		if !qsar.KnownSymbol(at.Symbol) {
			return &Error{kind: UnknownAtom, program: program, input: mol.Name, message: fmt.Sprintf("atom %d has unknown type %q", i+1, at.Symbol), deco: []string{"checkAtoms"}, critical: true}
		}
	}
	return nil
}
