/*
 * set.go, part of goqsar.
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

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rmera/goqsar"
	"github.com/rmera/goqsar/extern"
	"gonum.org/v1/gonum/stat"
)

//Field is one molecular interaction field. Values are stored per object,
//with one value per grid node.
type Field struct {
	Name   string
	Kind   extern.FieldKind
	Grid   extern.GridSpec
	Active bool

	values  [][]float64
	operate *roaring.Bitmap
}

//NVars returns the number of variables (grid nodes) in the field.
func (F *Field) NVars() int {
	return F.Grid.Len()
}

//Operate returns whether variable v takes part in the models.
func (F *Field) Operate(v int) bool {
	return F.operate.Contains(uint32(v))
}

//SetOperate sets or clears the operate bit of variable v.
func (F *Field) SetOperate(v int, on bool) {
	if on {
		F.operate.Add(uint32(v))
		return
	}
	F.operate.Remove(uint32(v))
}

//NOperate returns the number of variables with the operate bit set.
func (F *Field) NOperate() int {
	return int(F.operate.GetCardinality())
}

//OperateVars returns the indexes of the operate variables, in ascending order.
func (F *Field) OperateVars() []int {
	ret := make([]int, 0, F.operate.GetCardinality())
	it := F.operate.Iterator()
	for it.HasNext() {
		ret = append(ret, int(it.Next()))
	}
	return ret
}

//Computed returns whether the values of the field are available for object o.
func (F *Field) Computed(o int) bool {
	return F.values[o] != nil
}

//FieldSet holds the objects of a data set, their fields and their responses.
type FieldSet struct {
	Objects qsar.Objects
	Fields  []*Field
	Y       *Responses
}

//NewFieldSet returns an empty set for the objects, with the given response names.
func NewFieldSet(objects qsar.Objects, responses ...string) *FieldSet {
	return &FieldSet{Objects: objects, Y: NewResponses(len(objects), responses...)}
}

//AddField adds an active field with all its variables set to operate, and returns its index.
//The values are all NaN until computed or set.
func (S *FieldSet) AddField(name string, kind extern.FieldKind, grid extern.GridSpec) int {
	f := &Field{Name: name, Kind: kind, Grid: grid, Active: true, values: make([][]float64, len(S.Objects)), operate: roaring.New()}
	f.operate.AddRange(0, uint64(grid.Len()))
	S.Fields = append(S.Fields, f)
	return len(S.Fields) - 1
}

//XValue returns the value of variable v of field f for object o. It returns NaN
//if the field has not been computed for the object.
func (S *FieldSet) XValue(f, o, v int) float64 {
	vals := S.Fields[f].values[o]
	if vals == nil {
		return math.NaN()
	}
	return vals[v]
}

//SetXValue sets the value of variable v of field f for object o.
func (S *FieldSet) SetXValue(f, o, v int, val float64) {
	F := S.Fields[f]
	if F.values[o] == nil {
		F.values[o] = make([]float64, F.NVars())
		for i := range F.values[o] {
			F.values[o][i] = math.NaN()
		}
	}
	F.values[o][v] = val
}

//SetValues sets all the values of field f for object o. The slice is kept by the set.
//It is safe to call SetValues concurrently for different objects.
func (S *FieldSet) SetValues(f, o int, vals []float64) error {
	F := S.Fields[f]
	if len(vals) != F.NVars() {
		return fmt.Errorf("%w: %s got %d, expected %d", ErrValueCount, F.Name, len(vals), F.NVars())
	}
	F.values[o] = vals
	return nil
}

//clear forgets the values of field f for every object.
func (S *FieldSet) clear(f int) {
	F := S.Fields[f]
	for o := range F.values {
		F.values[o] = nil
	}
}

//NVars returns the total number of operate variables in the active fields.
func (S *FieldSet) NVars() int {
	n := 0
	for _, f := range S.Fields {
		if f.Active {
			n += f.NOperate()
		}
	}
	return n
}

//column returns the values of variable v of field f for the active objects.
func (S *FieldSet) column(f, v int, rows []int) []float64 {
	ret := make([]float64, len(rows))
	for i, o := range rows {
		ret[i] = S.XValue(f, o, v)
	}
	return ret
}

//weights returns the weights of the objects in rows.
func (S *FieldSet) weights(rows []int) []float64 {
	ret := make([]float64, len(rows))
	for i, o := range rows {
		ret[i] = S.Objects[o].Weight
		if !S.Objects[o].HasWeight() {
			ret[i] = 0
		}
	}
	return ret
}

//Cutoff truncates the values of field f for all the objects so they are within [min, max].
func (S *FieldSet) Cutoff(f int, min, max float64) {
	for _, vals := range S.Fields[f].values {
		for i, v := range vals {
			if v > max {
				vals[i] = max
			} else if v < min {
				vals[i] = min
			}
		}
	}
}

//SDCut clears the operate bit of the variables of field f whose standard deviation
//over the active objects is lower than minSD. It returns the number of variables excluded.
func (S *FieldSet) SDCut(f int, minSD float64) int {
	rows := S.Objects.Indexes(qsar.Active)
	if len(rows) == 0 {
		return 0
	}
	F := S.Fields[f]
	w := S.weights(rows)
	removed := 0
	for _, v := range F.OperateVars() {
		_, sd := stat.PopMeanStdDev(S.column(f, v, rows), w)
		if !(sd >= minSD) {
			F.SetOperate(v, false)
			removed++
		}
	}
	return removed
}

//ZeroVariance clears the operate bit of the variables of all the fields that have
//the same value for all the active objects, and returns the number of variables excluded.
func (S *FieldSet) ZeroVariance() int {
	rows := S.Objects.Indexes(qsar.Active)
	removed := 0
	if len(rows) == 0 {
		return 0
	}
	for f, F := range S.Fields {
		for _, v := range F.OperateVars() {
			col := S.column(f, v, rows)
			same := true
			for _, x := range col[1:] {
				if x != col[0] {
					same = false
					break
				}
			}
			if same {
				F.SetOperate(v, false)
				removed++
			}
		}
	}
	return removed
}
