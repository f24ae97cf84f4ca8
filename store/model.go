/*
 * model.go, part of goqsar.
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
	"fmt"
	"os"

	"github.com/rmera/goqsar"
	"github.com/rmera/goqsar/dense"
	"github.com/rmera/goqsar/field"
	"github.com/rmera/goqsar/pls"
)

//ModelWriter writes a model file block by block. It is a pls.BlockSink.
type ModelWriter struct {
	name    string
	tmp     string
	f       *os.File
	pcs     int
	ny, nx  int
	nobj    int
	next    int   //PC count of the next block expected
	written int64 //bytes written so far
	buf     []byte
	failed  bool
}

func headerSize(nobj int) int64 {
	return int64(int32Size * (3 + nobj))
}

func blockSize(nx, ny, nobj int) int64 {
	return int64(float64Size * ny * (nx + nobj))
}

//CreateModel starts a model file for a model with pcs components, ny responses, nx X variables
//and the given objects. The header is written right away to a temporary file.
func CreateModel(name string, pcs, ny, nx int, objects []int) (*ModelWriter, error) {
	W := &ModelWriter{name: name, tmp: name + ".tmp", pcs: pcs, ny: ny, nx: nx, nobj: len(objects), next: pcs}
	var err error
	W.f, err = os.Create(W.tmp)
	if err != nil {
		return nil, wrap(err, W.tmp, "CreateModel")
	}
	head := putInt32s(make([]byte, 0, headerSize(len(objects))), pcs, ny, len(objects))
	head = putInt32s(head, objects...)
	if err := W.write(head); err != nil {
		W.Abort()
		return nil, wrap(err, W.tmp, "CreateModel")
	}
	return W, nil
}

func (W *ModelWriter) write(b []byte) error {
	if err := writeFull(W.f, b); err != nil {
		W.failed = true
		return err
	}
	W.written += int64(len(b))
	return nil
}

//WriteBlock writes the block b, which must be the next one, in decreasing order of PCs.
func (W *ModelWriter) WriteBlock(b *pls.Block) error {
	if W.failed {
		return wrap(ErrShortWrite, W.tmp, "WriteBlock")
	}
	if b.PCs != W.next || W.next < 0 {
		return wrap(fmt.Errorf("%w: got %d PCs, expected %d", ErrBlockOrder, b.PCs, W.next), W.tmp, "WriteBlock")
	}
	nx, ny := b.B.Dims()
	if nx != W.nx || ny != W.ny || len(b.Recalc) != ny {
		return wrap(fmt.Errorf("%w: block is %dx%d", dense.ErrShape, nx, ny), W.tmp, "WriteBlock")
	}
	W.buf = putCoefficients(W.buf[:0], b.B)
	for _, rec := range b.Recalc {
		if len(rec) != W.nobj {
			return wrap(fmt.Errorf("%w: %d values for %d objects", dense.ErrShape, len(rec), W.nobj), W.tmp, "WriteBlock")
		}
		for _, v := range rec {
			W.buf = putFloat(W.buf, encodeValue(v))
		}
	}
	if err := W.write(W.buf); err != nil {
		return wrap(err, W.tmp, "WriteBlock")
	}
	W.next--
	return nil
}

//Close checks that all the blocks were written, and gives the file its final name.
//If anything is wrong, the file is removed and an error returned.
func (W *ModelWriter) Close() error {
	expected := headerSize(W.nobj) + int64(W.pcs+1)*blockSize(W.nx, W.ny, W.nobj)
	if W.written != expected {
		W.Abort()
		return wrap(fmt.Errorf("%w: %d bytes written, expected %d", ErrShortWrite, W.written, expected), W.tmp, "ModelWriter.Close")
	}
	if err := W.f.Sync(); err != nil {
		W.Abort()
		return wrap(err, W.tmp, "ModelWriter.Close")
	}
	if err := W.f.Close(); err != nil {
		os.Remove(W.tmp)
		return wrap(err, W.tmp, "ModelWriter.Close")
	}
	if err := os.Rename(W.tmp, W.name); err != nil {
		os.Remove(W.tmp)
		return wrap(err, W.name, "ModelWriter.Close")
	}
	return nil
}

//Abort closes and removes the temporary file. The ModelWriter can't be used afterwards.
func (W *ModelWriter) Abort() {
	W.f.Close()
	os.Remove(W.tmp)
}

//WriteModel writes the model M, built with the matrices mats, to the file name.
func WriteModel(name string, M *pls.Model, mats *field.Matrices) error {
	nx, _ := M.W.Dims()
	W, err := CreateModel(name, M.PCs, len(mats.YVars), nx, mats.Objects)
	if err != nil {
		return err
	}
	if err := M.Emit(W, mats.Weights, mats.YMean); err != nil {
		W.Abort()
		return qsar.ErrDecorate(err, "WriteModel")
	}
	return W.Close()
}

//ModelFile is a model file open for reading.
type ModelFile struct {
	PCs     int
	YVars   int
	XVars   int
	Objects []int

	name  string
	f     *os.File
	start int64 //offset of the first block
	size  int64 //size of each block
}

//OpenModel opens a model file for a model with xVars X variables, and reads its header.
//The file must have exactly the size the header and xVars imply, so a truncated or
//padded file is rejected here rather than when a block is read.
func OpenModel(name string, xVars int) (*ModelFile, error) {
	F := &ModelFile{name: name, XVars: xVars}
	var err error
	F.f, err = os.Open(name)
	if err != nil {
		return nil, wrap(err, name, "OpenModel")
	}
	fail := func(err error) (*ModelFile, error) {
		F.f.Close()
		return nil, wrap(err, name, "OpenModel")
	}
	head := make([]byte, 3*int32Size)
	if err := readFull(F.f, head); err != nil {
		return fail(err)
	}
	F.PCs, F.YVars = getInt32(head), getInt32(head[int32Size:])
	nobj := getInt32(head[2*int32Size:])
	if F.PCs < 0 || F.YVars < 1 || nobj < 0 || xVars < 1 {
		return fail(fmt.Errorf("%w: header says %d PCs, %d responses, %d objects (%d X variables)", ErrFormat, F.PCs, F.YVars, nobj, xVars))
	}
	info, err := F.f.Stat()
	if err != nil {
		return fail(err)
	}
	F.start = headerSize(nobj)
	F.size = blockSize(xVars, F.YVars, nobj)
	expected := F.start + int64(F.PCs+1)*F.size
	if info.Size() < expected {
		return fail(fmt.Errorf("%w: file has %d bytes, expected %d", ErrShortRead, info.Size(), expected))
	}
	if info.Size() > expected {
		return fail(fmt.Errorf("%w: file has %d bytes, expected %d", ErrFormat, info.Size(), expected))
	}
	objs := make([]byte, nobj*int32Size)
	if err := readFull(F.f, objs); err != nil {
		return fail(err)
	}
	F.Objects = make([]int, nobj)
	for i := range F.Objects {
		F.Objects[i] = getInt32(objs[i*int32Size:])
	}
	return F, nil
}

//ReadBlock reads the block for pc components, without reading any other block.
func (F *ModelFile) ReadBlock(pc int) (*pls.Block, error) {
	if pc < 0 || pc > F.PCs {
		return nil, wrap(fmt.Errorf("%w: %d PCs, the model has %d", ErrNoBlock, pc, F.PCs), F.name, "ReadBlock")
	}
	off := F.start + int64(F.PCs-pc)*F.size
	buf := make([]byte, F.size)
	n, err := F.f.ReadAt(buf, off)
	if n != len(buf) {
		if err == nil {
			err = ErrShortRead
		}
		return nil, wrap(fmt.Errorf("%w: %d of %d bytes at %d: %s", ErrShortRead, n, len(buf), off, err.Error()), F.name, "ReadBlock")
	}
	nobj := len(F.Objects)
	b := &pls.Block{PCs: pc, B: getCoefficients(buf, F.XVars, F.YVars), Recalc: make([][]pls.Value, F.YVars)}
	buf = buf[F.XVars*F.YVars*float64Size:]
	for j := range b.Recalc {
		b.Recalc[j] = make([]pls.Value, nobj)
		for i := range b.Recalc[j] {
			b.Recalc[j][i] = decodeValue(getFloat(buf[(j*nobj+i)*float64Size:]))
		}
	}
	return b, nil
}

func (F *ModelFile) Close() error {
	return F.f.Close()
}
