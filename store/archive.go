/*
 * archive.go, part of goqsar.
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
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/rmera/goqsar/dense"
	"github.com/rmera/goqsar/pls"
)

//ArchiveWriter writes a coefficient archive. It is a pls.BlockSink, and
//ignores the recalculated values of the blocks.
type ArchiveWriter struct {
	name string
	tmp  string
	f    *os.File
	bw   *bufio.Writer
	z    io.WriteCloser
	pcs  int
	nx   int
	ny   int
	next int
	buf  []byte
}

//CreateArchive starts an archive for a model with pcs components, nx X variables
//and ny responses.
func CreateArchive(name string, pcs, nx, ny int) (*ArchiveWriter, error) {
	A := &ArchiveWriter{name: name, tmp: name + ".tmp", pcs: pcs, nx: nx, ny: ny, next: pcs}
	var err error
	A.f, err = os.Create(A.tmp)
	if err != nil {
		return nil, wrap(err, A.tmp, "CreateArchive")
	}
	A.bw = bufio.NewWriter(A.f)
	A.z, err = compressor(name, A.bw)
	if err != nil {
		A.f.Close()
		os.Remove(A.tmp)
		return nil, wrap(err, A.tmp, "CreateArchive")
	}
	if err := writeFull(A.z, putInt32s(nil, pcs+1)); err != nil {
		A.Abort()
		return nil, wrap(err, A.tmp, "CreateArchive")
	}
	return A, nil
}

func (A *ArchiveWriter) WriteBlock(b *pls.Block) error {
	if b.PCs != A.next || A.next < 0 {
		return wrap(fmt.Errorf("%w: got %d PCs, expected %d", ErrBlockOrder, b.PCs, A.next), A.tmp, "ArchiveWriter.WriteBlock")
	}
	if nx, ny := b.B.Dims(); nx != A.nx || ny != A.ny {
		return wrap(fmt.Errorf("%w: block is %dx%d, archive is %dx%d", dense.ErrShape, nx, ny, A.nx, A.ny), A.tmp, "ArchiveWriter.WriteBlock")
	}
	A.buf = putCoefficients(A.buf[:0], b.B)
	if err := writeFull(A.z, A.buf); err != nil {
		return wrap(err, A.tmp, "ArchiveWriter.WriteBlock")
	}
	A.next--
	return nil
}

//Close flushes the archive and gives it its final name. It fails, and removes the
//file, if not all the blocks were written.
func (A *ArchiveWriter) Close() error {
	if A.next != -1 {
		A.Abort()
		return wrap(fmt.Errorf("%w: %d blocks missing", ErrShortWrite, A.next+1), A.tmp, "ArchiveWriter.Close")
	}
	for _, closer := range []func() error{A.z.Close, A.bw.Flush, A.f.Sync} {
		if err := closer(); err != nil {
			A.Abort()
			return wrap(err, A.tmp, "ArchiveWriter.Close")
		}
	}
	if err := A.f.Close(); err != nil {
		os.Remove(A.tmp)
		return wrap(err, A.tmp, "ArchiveWriter.Close")
	}
	if err := os.Rename(A.tmp, A.name); err != nil {
		os.Remove(A.tmp)
		return wrap(err, A.name, "ArchiveWriter.Close")
	}
	return nil
}

//Abort closes and removes the temporary file.
func (A *ArchiveWriter) Abort() {
	A.z.Close()
	A.f.Close()
	os.Remove(A.tmp)
}

//WriteArchive writes the coefficients of M for all the numbers of components to the file name.
func WriteArchive(name string, M *pls.Model) error {
	nx, _ := M.W.Dims()
	ny, _ := M.C.Dims()
	A, err := CreateArchive(name, M.PCs, nx, ny)
	if err != nil {
		return err
	}
	for i := M.PCs; i >= 0; i-- {
		if err := A.WriteBlock(&pls.Block{PCs: i, B: M.Coefficients(i)}); err != nil {
			A.Abort()
			return err
		}
	}
	return A.Close()
}

//Archive holds the coefficients read from an archive.
type Archive struct {
	PCs   int
	XVars int
	YVars int
	B     []*dense.Matrix //B[i] has the coefficients for i components.
}

//Coefficients returns the coefficients for pc components.
func (A *Archive) Coefficients(pc int) (*dense.Matrix, error) {
	if pc < 0 || pc > A.PCs {
		return nil, fmt.Errorf("%w: %d PCs, the archive has %d", ErrNoBlock, pc, A.PCs)
	}
	return A.B[pc], nil
}

//ReadArchive reads the archive name, for a model with xVars X variables and yVars responses.
func ReadArchive(name string, xVars, yVars int) (*Archive, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, wrap(err, name, "ReadArchive")
	}
	defer f.Close()
	z, err := decompressor(name, bufio.NewReader(f))
	if err != nil {
		return nil, wrap(err, name, "ReadArchive")
	}
	defer z.Close()
	head := make([]byte, int32Size)
	if err := readFull(z, head); err != nil {
		return nil, wrap(err, name, "ReadArchive")
	}
	blocks := getInt32(head)
	if blocks < 1 || xVars < 1 || yVars < 1 {
		return nil, wrap(fmt.Errorf("%w: %d blocks, %dx%d coefficients", ErrFormat, blocks, xVars, yVars), name, "ReadArchive")
	}
	data, err := io.ReadAll(z)
	if err != nil {
		return nil, wrap(err, name, "ReadArchive")
	}
	per := float64Size * xVars * yVars
	if len(data) < blocks*per {
		return nil, wrap(fmt.Errorf("%w: %d bytes of coefficients, expected %d", ErrShortRead, len(data), blocks*per), name, "ReadArchive")
	}
	if len(data) > blocks*per {
		return nil, wrap(fmt.Errorf("%w: %d bytes of coefficients, expected %d", ErrFormat, len(data), blocks*per), name, "ReadArchive")
	}
	A := &Archive{PCs: blocks - 1, XVars: xVars, YVars: yVars, B: make([]*dense.Matrix, blocks)}
	for i := 0; i < blocks; i++ {
		pc := A.PCs - i
		A.B[pc] = getCoefficients(data[i*per:], xVars, yVars)
	}
	return A, nil
}
