/*
 * emit.go, part of goqsar.
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

package pls

import (
	"fmt"
	"math"

	"github.com/rmera/goqsar/dense"
)

//Value is a recalculated response. It can be a number, or undefined,
//for objects that have no weight.
type Value struct {
	v  float64
	ok bool
}

//Number returns a defined Value.
func Number(v float64) Value { return Value{v: v, ok: true} }

//Undefined is the Value of responses that can't be recalculated.
var Undefined = Value{}

//Float64 returns the value and whether it is defined.
func (V Value) Float64() (float64, bool) { return V.v, V.ok }

func (V Value) Defined() bool { return V.ok }

func (V Value) String() string {
	if !V.ok {
		return "undefined"
	}
	return fmt.Sprintf("%.6g", V.v)
}

//Block is the part of a model for a given number of components.
type Block struct {
	PCs    int
	B      *dense.Matrix //regression coefficients, X variables x responses
	Recalc [][]Value     //recalculated responses, one slice per response, one value per object
}

//BlockSink receives the blocks of a model. The block given is reused by the caller
//after WriteBlock returns, so the sink must copy anything it wants to keep.
type BlockSink interface {
	WriteBlock(b *Block) error
}

type tee []BlockSink

func (t tee) WriteBlock(b *Block) error {
	for _, s := range t {
		if err := s.WriteBlock(b); err != nil {
			return err
		}
	}
	return nil
}

//Tee returns a BlockSink that hands each block to all the sinks, in order.
func Tee(sinks ...BlockSink) BlockSink {
	return tee(sinks)
}

//scratch holds the matrices reused when producing the blocks of a model.
type scratch struct {
	ws, cs, ts *dense.Matrix
	yhat       *dense.Matrix
}

func (M *Model) newScratch() *scratch {
	nx, _ := M.W.Dims()
	ny, _ := M.C.Dims()
	n, _ := M.T.Dims()
	return &scratch{
		ws:   dense.NewMatrixCap(nx, 0, nx, M.PCs),
		cs:   dense.NewMatrixCap(ny, 0, ny, M.PCs),
		ts:   dense.NewMatrixCap(n, 0, n, M.PCs),
		yhat: dense.NewMatrix(n, ny),
	}
}

//coefficients puts in dst the coefficients for the first i components: W*(1..i) C(1..i)'.
func (M *Model) coefficients(i int, dst *dense.Matrix, s *scratch) {
	if i == 0 {
		dst.Zero()
		return
	}
	s.ws.SomeCols(M.WStar, i)
	s.cs.SomeCols(M.C, i)
	mul(false, true, 1, s.ws, s.cs, 0, dst)
}

//Coefficients returns the regression coefficients for the first i components.
//For i == 0 they are all zero.
func (M *Model) Coefficients(i int) *dense.Matrix {
	if i < 0 || i > M.PCs {
		panic(dense.ErrIndexOutOfRange)
	}
	nx, _ := M.W.Dims()
	ny, _ := M.C.Dims()
	B := dense.NewMatrix(nx, ny)
	M.coefficients(i, B, M.newScratch())
	return B
}

//Predict returns x'B + ymean, for the centered and scaled row x.
func Predict(B *dense.Matrix, x, ymean []float64) []float64 {
	nx, ny := B.Dims()
	if len(x) != nx || len(ymean) != ny {
		panic(dense.ErrShape)
	}
	ret := make([]float64, ny)
	for j := range ret {
		col := B.Col(j)
		var s float64
		for i, v := range x {
			s += v * col[i]
		}
		ret[j] = s + ymean[j]
	}
	return ret
}

//Predict returns the responses predicted with the first pcs components for the centered
//and scaled row x.
func (M *Model) Predict(x []float64, pcs int, ymean []float64) []float64 {
	return Predict(M.Coefficients(pcs), x, ymean)
}

//recalculate puts in the block the responses recalculated with the first i
//components, un-weighted and un-centered.
func (M *Model) recalculate(i int, blk *Block, weights, ymean []float64, s *scratch) {
	if i == 0 {
		s.yhat.Zero()
	} else {
		s.ts.SomeCols(M.T, i)
		s.cs.SomeCols(M.C, i)
		mul(false, true, 1, s.ts, s.cs, 0, s.yhat)
	}
	for j, rec := range blk.Recalc {
		col := s.yhat.Col(j)
		for r, w := range weights {
			if !(w > 0) || math.IsInf(w, 0) {
				rec[r] = Undefined
				continue
			}
			rec[r] = Number(col[r]/math.Sqrt(w) + ymean[j])
		}
	}
}

//Emit produces the blocks of the model, from M.PCs components down to zero, and
//hands them to sink. weights are the weights of the objects (rows) used to build
//the model, and ymean the means of the responses.
//The first error from the sink stops the process and is returned.
func (M *Model) Emit(sink BlockSink, weights, ymean []float64) error {
	n, _ := M.T.Dims()
	nx, _ := M.W.Dims()
	ny, _ := M.C.Dims()
	if len(weights) != n || len(ymean) != ny {
		return fmt.Errorf("%w: %d weights and %d means for %d objects and %d responses", ErrShape, len(weights), len(ymean), n, ny)
	}
	s := M.newScratch()
	blk := &Block{B: dense.NewMatrix(nx, ny), Recalc: make([][]Value, ny)}
	for j := range blk.Recalc {
		blk.Recalc[j] = make([]Value, n)
	}
	for i := M.PCs; i >= 0; i-- {
		blk.PCs = i
		M.coefficients(i, blk.B, s)
		M.recalculate(i, blk, weights, ymean, s)
		if err := sink.WriteBlock(blk); err != nil {
			return err
		}
	}
	return nil
}
