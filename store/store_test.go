/*
 * store_test.go, part of goqsar.
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

package store

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/goqsar"
	"github.com/rmera/goqsar/dense"
	"github.com/rmera/goqsar/extern"
	"github.com/rmera/goqsar/field"
	"github.com/rmera/goqsar/pls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//dataset returns the matrices for n objects with 3 fields of 20 variables each,
//and one response made from 3 latent factors.
func dataset(t *testing.T, n int) *field.Matrices {
	r := rand.New(rand.NewSource(17))
	objs := make(qsar.Objects, n)
	for i := range objs {
		objs[i] = qsar.NewObject(i, fmt.Sprintf("mol%d", i), nil)
	}
	S := field.NewFieldSet(objs, "activity")
	lat := make([][3]float64, n)
	for i := range lat {
		lat[i] = [3]float64{r.NormFloat64(), r.NormFloat64(), r.NormFloat64()}
		S.Y.Set(i, 0, 3+lat[i][0]-2*lat[i][1]+0.5*lat[i][2]+0.01*r.NormFloat64())
	}
	for f := 0; f < 3; f++ {
		k := S.AddField(fmt.Sprintf("f%d", f), extern.Steric, extern.GridSpec{Step: 1, Nodes: [3]int{20, 1, 1}})
		for v := 0; v < 20; v++ {
			a := [3]float64{r.NormFloat64(), r.NormFloat64(), r.NormFloat64()}
			for o := 0; o < n; o++ {
				S.SetXValue(k, o, v, a[0]*lat[o][0]+a[1]*lat[o][1]+a[2]*lat[o][2]+0.01*r.NormFloat64())
			}
		}
	}
	A, err := field.NewAssembler(S, field.Options{})
	require.NoError(t, err)
	M, err := A.Build(nil)
	require.NoError(t, err)
	return M
}

func TestModelRoundTrip(t *testing.T) {
	mats := dataset(t, 12)
	M, err := pls.Build(mats.X, mats.Y, 5)
	require.NoError(t, err)
	name := filepath.Join(t.TempDir(), "model.bin")
	require.NoError(t, WriteModel(name, M, mats))
	_, err = os.Stat(name + ".tmp")
	assert.True(t, os.IsNotExist(err))

	F, err := OpenModel(name, 60)
	require.NoError(t, err)
	defer F.Close()
	assert.Equal(t, 5, F.PCs)
	assert.Equal(t, 1, F.YVars)
	assert.Equal(t, 60, F.XVars)
	assert.Equal(t, mats.Objects, F.Objects)
	for _, pc := range []int{3, 0, 5, 1} {
		b, err := F.ReadBlock(pc)
		require.NoError(t, err)
		assert.Equal(t, pc, b.PCs)
		assert.Equal(t, M.Coefficients(pc).Raw(), b.B.Raw())
	}
	_, err = F.ReadBlock(6)
	assert.True(t, errors.Is(err, ErrNoBlock))
}

func TestEndToEnd(t *testing.T) {
	mats := dataset(t, 10)
	M, err := pls.Build(mats.X, mats.Y, 3)
	require.NoError(t, err)
	name := filepath.Join(t.TempDir(), "e2e.bin")
	require.NoError(t, WriteModel(name, M, mats))

	raw, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, 3, getInt32(raw))
	assert.Equal(t, 10, getInt32(raw[2*int32Size:]))
	assert.Equal(t, int(headerSize(10)+4*blockSize(60, 1, 10)), len(raw))

	F, err := OpenModel(name, 60)
	require.NoError(t, err)
	defer F.Close()
	b, err := F.ReadBlock(3)
	require.NoError(t, err)
	rec := make([]float64, 10)
	truth := make([]float64, 10)
	for i, v := range b.Recalc[0] {
		rec[i], _ = v.Float64()
		truth[i] = mats.Response(mats.Objects[i], 0)
	}
	assert.GreaterOrEqual(t, pearson(rec, truth), 0.99)
}

func pearson(a, b []float64) float64 {
	var ma, mb float64
	for i := range a {
		ma += a[i]
		mb += b[i]
	}
	ma /= float64(len(a))
	mb /= float64(len(b))
	var sab, saa, sbb float64
	for i := range a {
		sab += (a[i] - ma) * (b[i] - mb)
		saa += (a[i] - ma) * (a[i] - ma)
		sbb += (b[i] - mb) * (b[i] - mb)
	}
	return sab / math.Sqrt(saa*sbb)
}

func TestUndefinedValues(t *testing.T) {
	mats := dataset(t, 8)
	mats.Weights[3] = 0
	M, err := pls.Build(mats.X, mats.Y, 2)
	require.NoError(t, err)
	name := filepath.Join(t.TempDir(), "w.bin")
	require.NoError(t, WriteModel(name, M, mats))
	F, err := OpenModel(name, 60)
	require.NoError(t, err)
	defer F.Close()
	for pc := 0; pc <= 2; pc++ {
		b, err := F.ReadBlock(pc)
		require.NoError(t, err)
		assert.False(t, b.Recalc[0][3].Defined())
		assert.True(t, b.Recalc[0][2].Defined())
	}
}

func TestIncompleteModel(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "partial.bin")
	W, err := CreateModel(name, 2, 1, 4, []int{0, 1, 2})
	require.NoError(t, err)
	blk := &pls.Block{PCs: 1, B: nil}
	err = W.WriteBlock(blk)
	assert.True(t, errors.Is(err, ErrBlockOrder))
	err = W.Close()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShortWrite))
	var ferr qsar.FileError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, name+".tmp", ferr.FileName())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = CreateModel(filepath.Join(dir, "missing", "m.bin"), 1, 1, 1, nil)
	require.Error(t, err)
	assert.True(t, qsar.IsCritical(err))
}

func TestArchive(t *testing.T) {
	mats := dataset(t, 12)
	M, err := pls.Build(mats.X, mats.Y, 4)
	require.NoError(t, err)
	dir := t.TempDir()
	for _, ext := range []string{".zst", ".lz4", ".bin"} {
		name := filepath.Join(dir, "coef"+ext)
		require.NoError(t, WriteArchive(name, M))
		A, err := ReadArchive(name, 60, 1)
		require.NoError(t, err, ext)
		assert.Equal(t, 4, A.PCs)
		assert.Equal(t, 60, A.XVars)
		for pc := 0; pc <= 4; pc++ {
			B, err := A.Coefficients(pc)
			require.NoError(t, err)
			assert.Equal(t, M.Coefficients(pc).Raw(), B.Raw(), ext)
		}
	}
	raw, err := os.ReadFile(filepath.Join(dir, "coef.bin"))
	require.NoError(t, err)
	assert.Equal(t, 5, getInt32(raw))
	assert.Equal(t, int32Size+5*60*float64Size, len(raw))
}

func TestTee(t *testing.T) {
	mats := dataset(t, 10)
	M, err := pls.Build(mats.X, mats.Y, 2)
	require.NoError(t, err)
	dir := t.TempDir()
	W, err := CreateModel(filepath.Join(dir, "m.bin"), 2, 1, 60, mats.Objects)
	require.NoError(t, err)
	A, err := CreateArchive(filepath.Join(dir, "m.zst"), 2, 60, 1)
	require.NoError(t, err)
	require.NoError(t, M.Emit(pls.Tee(W, A), mats.Weights, mats.YMean))
	require.NoError(t, W.Close())
	require.NoError(t, A.Close())
	F, err := OpenModel(filepath.Join(dir, "m.bin"), 60)
	require.NoError(t, err)
	defer F.Close()
	arch, err := ReadArchive(filepath.Join(dir, "m.zst"), 60, 1)
	require.NoError(t, err)
	b, err := F.ReadBlock(1)
	require.NoError(t, err)
	B, _ := arch.Coefficients(1)
	assert.Equal(t, b.B.Raw(), B.Raw())
}

func TestTruncatedFiles(t *testing.T) {
	mats := dataset(t, 10)
	M, err := pls.Build(mats.X, mats.Y, 3)
	require.NoError(t, err)
	dir := t.TempDir()
	model := filepath.Join(dir, "cut.bin")
	arch := filepath.Join(dir, "cut.coef")
	require.NoError(t, WriteModel(model, M, mats))
	require.NoError(t, WriteArchive(arch, M))
	for _, name := range []string{model, arch} {
		info, err := os.Stat(name)
		require.NoError(t, err)
		require.NoError(t, os.Truncate(name, info.Size()-3*float64Size))
	}
	_, err = OpenModel(model, 60)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShortRead), err.Error())
	_, err = ReadArchive(arch, 60, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShortRead), err.Error())

	//An intact file read with the wrong number of X variables is rejected as well.
	require.NoError(t, WriteModel(model, M, mats))
	_, err = OpenModel(model, 59)
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestArchiveShape(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "shape.zst")
	A, err := CreateArchive(name, 1, 4, 1)
	require.NoError(t, err)
	err = A.WriteBlock(&pls.Block{PCs: 1, B: dense.NewMatrix(3, 1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dense.ErrShape))
	require.NoError(t, A.WriteBlock(&pls.Block{PCs: 1, B: dense.NewMatrix(4, 1)}))
	require.NoError(t, A.WriteBlock(&pls.Block{PCs: 0, B: dense.NewMatrix(4, 1)}))
	require.NoError(t, A.Close())
	arch, err := ReadArchive(name, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, arch.PCs)
}
