/*
 * object.go, part of goqsar.
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

import (
	"fmt"
	"math"
)

//Attr is a set of bit attributes for an object.
type Attr uint8

const (
	Active  Attr = 1 << iota //the object is part of the training set
	Operate                  //the object is selected for the current operation
	Predict                  //the object is part of the external prediction set
	Done                     //the fields for the object have been computed
)

func (a Attr) String() string {
	names := []string{"active", "operate", "predict", "done"}
	s := ""
	for i, n := range names {
		if a&(1<<uint(i)) != 0 {
			if s != "" {
				s += "|"
			}
			s += n
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

//Atom contains the atom data an external engine needs: the element symbol,
//a name, the cartesian coordinates in A and a partial charge.
type Atom struct {
	Symbol string
	Name   string
	Coords [3]float64
	Charge float64
}

//Object is one structure (molecule, conformer) of the data set.
//Objects are created by the importer and are read-only for the
//rest of the library, except for the Done attribute, which is set
//by the worker that computes the fields for that object.
type Object struct {
	ObjectID int //position in the data set, 0-based
	StructID int
	ConfID   int
	Name     string
	Atoms    []*Atom
	Bonds    int
	Weight   float64
	attr     Attr
}

//NewObject returns an active object with unit weight.
func NewObject(id int, name string, atoms []*Atom) *Object {
	return &Object{ObjectID: id, StructID: id, Name: name, Atoms: atoms, Weight: 1, attr: Active}
}

//Has returns true if all the bits in a are set for the object.
func (O *Object) Has(a Attr) bool {
	return O.attr&a == a
}

//Set sets the bits in a.
func (O *Object) Set(a Attr) {
	O.attr |= a
}

//Unset clears the bits in a.
func (O *Object) Unset(a Attr) {
	O.attr &^= a
}

//Attrs returns all the attributes of the object.
func (O *Object) Attrs() Attr {
	return O.attr
}

//Len returns the number of atoms in the object.
func (O *Object) Len() int {
	return len(O.Atoms)
}

//HasWeight returns true if the object has a positive, finite weight.
//Objects without weight can't have their response recalculated.
func (O *Object) HasWeight() bool {
	return O.Weight > 0 && !math.IsInf(O.Weight, 0) && !math.IsNaN(O.Weight)
}

func (O *Object) String() string {
	return fmt.Sprintf("object %d (%s) struct %d conf %d atoms %d [%s]", O.ObjectID, O.Name, O.StructID, O.ConfID, len(O.Atoms), O.attr)
}

//Objects is the set of objects in a data set, indexed by ObjectID.
type Objects []*Object

//Attr returns whether object i has the attribute a. It panics
//if i is out of range.
func (S Objects) Attr(i int, a Attr) bool {
	return S[i].Has(a)
}

//Indexes returns, in ascending order, the indexes of the objects that have the attribute a.
func (S Objects) Indexes(a Attr) []int {
	ret := make([]int, 0, len(S))
	for i, o := range S {
		if o.Has(a) {
			ret = append(ret, i)
		}
	}
	return ret
}

//Count returns the number of objects with the attribute a.
func (S Objects) Count(a Attr) int {
	n := 0
	for _, o := range S {
		if o.Has(a) {
			n++
		}
	}
	return n
}

//SetAll sets (set==true) or clears the attribute a in every object.
func (S Objects) SetAll(a Attr, set bool) {
	for _, o := range S {
		if set {
			o.Set(a)
		} else {
			o.Unset(a)
		}
	}
}
