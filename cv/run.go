/*
 * run.go, part of goqsar.
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

package cv

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rmera/goqsar"
	"github.com/rmera/goqsar/dense"
	"github.com/rmera/goqsar/field"
	"github.com/rmera/goqsar/pls"
	"github.com/rmera/goqsar/pool"
)

//Result of a cross-validation. PRESS, Q2 and SDEP have one row per number of
//components, from 0 to the PCs requested, and one column per response.
//Objects with zero weight are held out and predicted, but add nothing to PRESS
//and are not counted in the SDEP average.
type Result struct {
	Kind     Kind
	PCs      int
	Groups   int //leave-many-out only
	Runs     int //leave-many-out only
	Objects  int
	Weighted int //objects with a positive weight, which SDEP is averaged over
	Folds    [][]int         //objects held out in each fold
	Slabs    []*dense.Matrix //squared errors of each fold, same shape as PRESS
	PRESS    *dense.Matrix   //normalized by the number of times each object is predicted
	SS       []float64       //sum of squares of each response around its mean
	Q2       *dense.Matrix
	SDEP     *dense.Matrix
}

//Run cross-validates models with opts.PCs components built with the assembler asm.
//The preconditions are checked before any fold is run. Folds run sequentially if
//opts.Threads is 1, and in a worker pool otherwise. Each fold writes only its own slab,
//and the slabs are added in fold order, so the result doesn't depend on the number of threads.
func Run(asm *field.Assembler, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := opts.Log.OrNoop().WithPhase("cv")
	n := asm.NObjects()
	folds, err := Folds(opts.Kind, asm.Objects(), opts.Groups, opts.Runs, opts.Seed)
	if err != nil {
		return nil, err
	}
	if opts.PCs < 1 {
		return nil, fmt.Errorf("%w: %d", pls.ErrNoComponents, opts.PCs)
	}
	if max := pls.MaxPCs(training(opts.Kind, n, opts.Groups), asm.NVars()); opts.PCs > max {
		return nil, fmt.Errorf("%w: %d requested, at most %d", ErrTooManyPCs, opts.PCs, max)
	}
	ny := asm.NY()
	if ny == 0 {
		return nil, pls.ErrNoResponses
	}
	R := &Result{Kind: opts.Kind, PCs: opts.PCs, Groups: opts.Groups, Runs: opts.Runs, Objects: n, Folds: folds, Slabs: make([]*dense.Matrix, len(folds))}
	log.Info("cross-validation started", "kind", opts.Kind.String(), "folds", len(folds), "pcs", opts.PCs, "threads", opts.Threads)
	task := func(worker, index int, rec *pool.TaskRecord) {
		slab, err := fold(asm, folds[index], opts.PCs)
		if err != nil {
			rec.Fail(pool.CodeFailed, err)
			log.Error("fold failed", "fold", index, "err", err)
			return
		}
		R.Slabs[index] = slab
		log.Debug("fold done", "fold", index, "worker", worker)
	}
	var recs []pool.TaskRecord
	if opts.Threads == 1 {
		recs = make([]pool.TaskRecord, len(folds))
		for i := range recs {
			recs[i] = pool.TaskRecord{Index: i}
			task(0, i, &recs[i])
		}
	} else {
		recs, err = pool.Run(len(folds), opts.Threads, task)
		if err != nil {
			return nil, qsar.ErrDecorate(err, "cv.Run")
		}
	}
	if err := pool.Check("cross-validation", recs); err != nil {
		return nil, err
	}
	R.PRESS = dense.NewMatrix(opts.PCs+1, ny)
	press := R.PRESS.Raw()
	for _, s := range R.Slabs {
		for i, v := range s.Raw() {
			press[i] += v
		}
	}
	R.PRESS.Scale(1 / float64(perObject(opts.Kind, n, opts.Runs)))
	full, err := asm.Build(nil)
	if err != nil {
		return nil, qsar.ErrDecorate(err, "cv.Run")
	}
	for _, w := range full.Weights {
		if w > 0 {
			R.Weighted++
		}
	}
	R.SS = make([]float64, ny)
	for j := range R.SS {
		for r, o := range full.Objects {
			d := full.Response(o, j) - full.YMean[j]
			R.SS[j] += full.Weights[r] * d * d
		}
	}
	R.Q2 = dense.NewMatrix(opts.PCs+1, ny)
	R.SDEP = dense.NewMatrix(opts.PCs+1, ny)
	for i := 0; i <= opts.PCs; i++ {
		for j := 0; j < ny; j++ {
			p := R.PRESS.At(i, j)
			R.Q2.Set(i, j, 1-p/R.SS[j])
			R.SDEP.Set(i, j, math.Sqrt(p/float64(R.Weighted)))
		}
	}
	log.Info("cross-validation done", "kind", opts.Kind.String(), "q2", R.Q2.At(opts.PCs, 0), "sdep", R.SDEP.At(opts.PCs, 0))
	return R, nil
}

//fold builds a model without the objects in held, and returns the weighted squared
//errors of their predictions, for 0 to pcs components.
func fold(asm *field.Assembler, held []int, pcs int) (*dense.Matrix, error) {
	ex := roaring.New()
	for _, o := range held {
		ex.Add(uint32(o))
	}
	mats, err := asm.Build(ex)
	if err != nil {
		return nil, err
	}
	M, err := pls.Build(mats.X, mats.Y, pcs)
	if err != nil {
		return nil, err
	}
	ny := len(mats.YVars)
	slab := dense.NewMatrix(pcs+1, ny)
	rows := make([][]float64, len(held))
	weights := make([]float64, len(held))
	for k, o := range held {
		rows[k] = mats.Centered(o)
		weights[k] = asm.Set.Objects[o].Weight
		if !asm.Set.Objects[o].HasWeight() {
			weights[k] = 0
		}
	}
	for i := 0; i <= pcs; i++ {
		B := M.Coefficients(i)
		for k, o := range held {
			pred := pls.Predict(B, rows[k], mats.YMean)
			for j := range pred {
				e := pred[j] - mats.Response(o, j)
				slab.Set(i, j, slab.At(i, j)+weights[k]*e*e)
			}
		}
	}
	return slab, nil
}
