/*
 * assemble.go, part of goqsar.
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

package field

import (
	"fmt"
	"math"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rmera/goqsar"
	"github.com/rmera/goqsar/dense"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//MinYSD is the default minimum standard deviation for a response.
const MinYSD = 1.0e-4

//Scaling is the way X variables are scaled before modeling.
type Scaling int

const (
	NoScaling     Scaling = iota
	AutoScaling           //each variable divided by its standard deviation
	BlockUnscaled         //block unscaled weights: every field gets the same total variance
)

func (s Scaling) String() string {
	switch s {
	case NoScaling:
		return "none"
	case AutoScaling:
		return "auto"
	case BlockUnscaled:
		return "buw"
	}
	return fmt.Sprintf("scaling(%d)", int(s))
}

//ParseScaling returns the Scaling for the names used in the configuration.
func ParseScaling(s string) (Scaling, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return NoScaling, nil
	case "auto":
		return AutoScaling, nil
	case "buw":
		return BlockUnscaled, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadScaling, s)
}

//Options controls the assembly of the matrices.
type Options struct {
	Scaling Scaling
	MinYSD  float64 //0 means MinYSD
}

//OptionsFromConfig returns the Options for the PLS section of the configuration.
func OptionsFromConfig(c qsar.PLSConfig) (Options, error) {
	s, err := ParseScaling(c.Scaling)
	if err != nil {
		return Options{}, err
	}
	return Options{Scaling: s, MinYSD: c.MinYSD}, nil
}

//VarRef identifies an X variable: a field and a variable (grid node) in it.
type VarRef struct {
	Field, Var int
}

//Matrices are the X and Y matrices for a model, with what is needed to
//go back to the original values.
//Rows of X and Y are the training objects, multiplied by the square root of
//their weights. Columns of X are centered and scaled; columns of Y are only centered.
type Matrices struct {
	X, Y    *dense.Matrix
	XMean   []float64 //one per column of X
	XScale  []float64 //factor applied to each centered column of X
	YMean   []float64
	Objects []int     //object index of each row
	Vars    []VarRef  //variable of each column of X
	YVars   []int     //response index of each column of Y
	Weights []float64 //weight of each row's object, 0 for objects without weight.

	set *FieldSet
}

//Centered returns the centered and scaled (but not weighted) X row for object o,
//which needs not be one of the training objects.
func (M *Matrices) Centered(o int) []float64 {
	ret := make([]float64, len(M.Vars))
	for j, v := range M.Vars {
		ret[j] = (M.set.XValue(v.Field, o, v.Var) - M.XMean[j]) * M.XScale[j]
	}
	return ret
}

//Response returns the value of the j-th active response for object o.
func (M *Matrices) Response(o, j int) float64 {
	return M.set.Y.At(o, M.YVars[j])
}

//Assembler builds X and Y matrices from a FieldSet. The means and scaling factors
//are obtained once, from all the active objects, and are shared by all the
//matrices built, including those that exclude objects for cross-validation.
//The set must not be modified while the Assembler is in use. Build can be called
//concurrently.
type Assembler struct {
	Set     *FieldSet
	Options Options

	rows   []int
	vars   []VarRef
	yvars  []int
	xmean  []float64
	xscale []float64
	ymean  []float64
}

//NewAssembler obtains the statistics of the active objects and checks the data. It returns an error
//wrapping ErrYLowSD if a response doesn't vary enough among the active objects, and one wrapping
//ErrNotComputed if any operate variable or response of an active object has no value.
func NewAssembler(set *FieldSet, opts Options) (*Assembler, error) {
	A := &Assembler{Set: set, Options: opts}
	if opts.MinYSD <= 0 {
		A.Options.MinYSD = MinYSD
	}
	A.rows = set.Objects.Indexes(qsar.Active)
	w := set.weights(A.rows)
	if len(A.rows) == 0 || floats.Sum(w) == 0 {
		return nil, ErrNoObjects
	}
	blocks := make(map[int][]int) //field -> columns
	for f, F := range set.Fields {
		if !F.Active {
			continue
		}
		for _, o := range A.rows {
			if !F.Computed(o) {
				return nil, fmt.Errorf("%w: field %s, object %d", ErrNotComputed, F.Name, o)
			}
		}
		for _, v := range F.OperateVars() {
			blocks[f] = append(blocks[f], len(A.vars))
			A.vars = append(A.vars, VarRef{Field: f, Var: v})
		}
	}
	if len(A.vars) == 0 {
		return nil, ErrNoVariables
	}
	A.xmean = make([]float64, len(A.vars))
	A.xscale = make([]float64, len(A.vars))
	variance := make([]float64, len(A.vars))
	for j, v := range A.vars {
		col := set.column(v.Field, v.Var, A.rows)
		for i, x := range col {
			if math.IsNaN(x) {
				return nil, fmt.Errorf("%w: field %s, object %d, variable %d", ErrNotComputed, set.Fields[v.Field].Name, A.rows[i], v.Var)
			}
		}
		var sd float64
		A.xmean[j], sd = stat.PopMeanStdDev(col, w)
		variance[j] = sd * sd
		A.xscale[j] = 1
		if A.Options.Scaling == AutoScaling && sd > dense.AlmostZero {
			A.xscale[j] = 1 / sd
		}
	}
	if A.Options.Scaling == BlockUnscaled {
		for _, cols := range blocks {
			var tot float64
			for _, j := range cols {
				tot += variance[j]
			}
			if tot <= dense.AlmostZero {
				continue
			}
			for _, j := range cols {
				A.xscale[j] = 1 / math.Sqrt(tot)
			}
		}
	}
	A.yvars = set.Y.ActiveIndexes()
	A.ymean = make([]float64, len(A.yvars))
	for j, y := range A.yvars {
		col := set.Y.column(y, A.rows)
		for i, v := range col {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("%w: response %s, object %d", ErrNotComputed, set.Y.Names[y], A.rows[i])
			}
		}
		var sd float64
		A.ymean[j], sd = stat.PopMeanStdDev(col, w)
		if !(sd >= A.Options.MinYSD) {
			return nil, fmt.Errorf("%w: %s has %g, minimum is %g", ErrYLowSD, set.Y.Names[y], sd, A.Options.MinYSD)
		}
	}
	return A, nil
}

//NObjects returns the number of active objects.
func (A *Assembler) NObjects() int { return len(A.rows) }

//Objects returns the indexes of the active objects, in ascending order.
func (A *Assembler) Objects() []int { return append([]int(nil), A.rows...) }

//NVars returns the number of X variables.
func (A *Assembler) NVars() int { return len(A.vars) }

//NY returns the number of active responses.
func (A *Assembler) NY() int { return len(A.yvars) }

//Build returns the matrices for the active objects, except those in exclude,
//which can be nil.
func (A *Assembler) Build(exclude *roaring.Bitmap) (*Matrices, error) {
	rows := make([]int, 0, len(A.rows))
	for _, o := range A.rows {
		if exclude == nil || !exclude.Contains(uint32(o)) {
			rows = append(rows, o)
		}
	}
	w := A.Set.weights(rows)
	if len(rows) == 0 || floats.Sum(w) == 0 {
		return nil, ErrNoObjects
	}
	M := &Matrices{
		X:       dense.NewMatrix(len(rows), len(A.vars)),
		Y:       dense.NewMatrix(len(rows), len(A.yvars)),
		XMean:   A.xmean,
		XScale:  A.xscale,
		YMean:   A.ymean,
		Objects: rows,
		Vars:    A.vars,
		YVars:   A.yvars,
		Weights: w,
		set:     A.Set,
	}
	sqw := make([]float64, len(w))
	for i := range w {
		sqw[i] = math.Sqrt(w[i])
	}
	for j, v := range A.vars {
		col := M.X.Col(j)
		for i, o := range rows {
			col[i] = (A.Set.XValue(v.Field, o, v.Var) - A.xmean[j]) * A.xscale[j] * sqw[i]
		}
	}
	for j, y := range A.yvars {
		col := M.Y.Col(j)
		for i, o := range rows {
			col[i] = (A.Set.Y.At(o, y) - A.ymean[j]) * sqw[i]
		}
	}
	return M, nil
}
