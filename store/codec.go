/*
 * codec.go, part of goqsar.
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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/rmera/goqsar/dense"
	"github.com/rmera/goqsar/pls"
)

var endian = binary.LittleEndian

const (
	int32Size   = 4
	float64Size = 8
)

//writeFull writes buf to w, and returns an error wrapping ErrShortWrite if
//not all of it was written.
func writeFull(w io.Writer, buf []byte) error {
	n, err := w.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(buf))
	}
	return nil
}

//readFull reads exactly len(buf) bytes from r.
func readFull(r io.Reader, buf []byte) error {
	n, err := io.ReadFull(r, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortRead, n, len(buf))
	}
	return err
}

func putInt32s(buf []byte, v ...int) []byte {
	for _, x := range v {
		buf = endian.AppendUint32(buf, uint32(int32(x)))
	}
	return buf
}

func putFloat(buf []byte, x float64) []byte {
	return endian.AppendUint64(buf, math.Float64bits(x))
}

func putFloats(buf []byte, v []float64) []byte {
	for _, x := range v {
		buf = putFloat(buf, x)
	}
	return buf
}

func getInt32(buf []byte) int {
	return int(int32(endian.Uint32(buf)))
}

func getFloat(buf []byte) float64 {
	return math.Float64frombits(endian.Uint64(buf))
}

//encodeValue turns undefined values into +Inf, as they are stored in files.
func encodeValue(v pls.Value) float64 {
	f, ok := v.Float64()
	if !ok {
		return math.Inf(1)
	}
	return f
}

func decodeValue(f float64) pls.Value {
	if math.IsInf(f, 1) {
		return pls.Undefined
	}
	return pls.Number(f)
}

//putCoefficients appends the columns of B to buf.
func putCoefficients(buf []byte, B *dense.Matrix) []byte {
	return putFloats(buf, B.Raw())
}

//getCoefficients reads a nx x ny matrix from buf, which must have the right size.
func getCoefficients(buf []byte, nx, ny int) *dense.Matrix {
	B := dense.NewMatrix(nx, ny)
	raw := B.Raw()
	for i := range raw {
		raw[i] = getFloat(buf[i*float64Size:])
	}
	return B
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

//compressor returns a writer that compresses to w, with the
//algorithm that corresponds to the extension of name.
func compressor(name string, w io.Writer) (io.WriteCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst":
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case ".lz4":
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

//decompressor is the reading counterpart of compressor.
func decompressor(name string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst":
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case ".lz4":
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}
