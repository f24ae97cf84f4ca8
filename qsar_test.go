/*
 * qsar_test.go, part of goqsar.
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
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjects(t *testing.T) {
	objs := Objects{
		NewObject(0, "a", nil),
		NewObject(1, "b", nil),
		NewObject(2, "c", nil),
	}
	objs[1].Unset(Active)
	objs[2].Set(Predict | Done)
	assert.Equal(t, []int{0, 2}, objs.Indexes(Active))
	assert.Equal(t, 1, objs.Count(Predict))
	assert.True(t, objs.Attr(2, Active|Done))
	assert.False(t, objs.Attr(1, Active))
	assert.Equal(t, "active|predict|done", objs[2].Attrs().String())
	objs.SetAll(Done, false)
	assert.Equal(t, 0, objs.Count(Done))
	assert.Equal(t, "none", Attr(0).String())

	objs[0].Weight = 0
	assert.False(t, objs[0].HasWeight())
	assert.True(t, objs[1].HasWeight())
}

func TestAtomicData(t *testing.T) {
	assert.True(t, KnownSymbol("C"))
	assert.False(t, KnownSymbol("Xx"))
	assert.False(t, KnownSymbol("Fe"), "transition metals other than Zn are not typed")
	r, ok := VdwRadius("H")
	assert.True(t, ok)
	assert.Greater(t, r, 1.0)
	_, ok = VdwRadius("Xx")
	assert.False(t, ok)
}

func TestXYZ(t *testing.T) {
	obj := NewObject(4, "methanol", []*Atom{
		{Symbol: "C", Coords: [3]float64{0, 0, 0}},
		{Symbol: "O", Coords: [3]float64{1.43, 0, 0}},
	})
	var b bytes.Buffer
	require.NoError(t, WriteXYZ(&b, obj))
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "2", strings.TrimSpace(lines[0]))
	assert.Equal(t, "methanol", lines[1])
	assert.Equal(t, []string{"O", "1.430000", "0.000000", "0.000000"}, strings.Fields(lines[3]))

	name := filepath.Join(t.TempDir(), "m.xyz")
	require.NoError(t, XYZFileWrite(name, obj))
	disk, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, b.Bytes(), disk)
}

func TestConfig(t *testing.T) {
	c, err := UnmarshalConfig([]byte(`
threads: 2
log_level: debug
pls:
  pcs: 3
  scaling: auto
cv:
  kind: lmo
  groups: 4
  runs: 10
  seed: 99
engine:
  command: mdgrid
  args: ["-i", "{xyz}", "-g", "{grid}"]
  retry_signature: "scratch file corrupted"
grid:
  origin: [-5, -5, -5]
  step: 0.5
  nodes: [20, 20, 20]
`))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Threads)
	assert.Equal(t, 3, c.PLS.PCs)
	assert.Equal(t, 1.0e-4, c.PLS.MinYSD, "keys not in the file keep their defaults")
	assert.Equal(t, int64(99), c.CV.Seed)
	assert.Equal(t, []string{"-i", "{xyz}", "-g", "{grid}"}, c.Engine.Args)
	assert.Equal(t, 5, c.Engine.MaxAttempts)
	assert.Equal(t, [3]int{20, 20, 20}, c.Grid.Nodes)

	out, err := c.Marshal()
	require.NoError(t, err)
	again, err := UnmarshalConfig(out)
	require.NoError(t, err)
	assert.Equal(t, c, again)

	for _, bad := range []string{"pls: {pcs: 0}", "cv: {kind: bootstrap}", "cv: {kind: lmo, groups: 1}", "cv: {kind: lmo, runs: -2}", "log_level: loud", "threads: [1"} {
		_, err := UnmarshalConfig([]byte(bad))
		assert.True(t, errors.Is(err, ErrConfigInvalid), bad)
	}
	_, err = UnmarshalConfig([]byte("cv: {kind: lmo, groups: 0, runs: 0}"))
	assert.NoError(t, err)
	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

type decorated struct {
	deco []string
}

func (d *decorated) Error() string { return "decorated" }
func (d *decorated) Decorate(s string) []string {
	if s != "" {
		d.deco = append(d.deco, s)
	}
	return d.deco
}
func (d *decorated) Critical() bool { return false }

func TestErrDecorate(t *testing.T) {
	d := &decorated{}
	err := ErrDecorate(ErrDecorate(d, "inner"), "outer")
	assert.Equal(t, []string{"inner", "outer"}, d.Decorate(""))
	assert.False(t, IsCritical(err))
	assert.True(t, IsCritical(errors.New("plain")))
	assert.Nil(t, ErrDecorate(nil, "x"))
}

func TestLogger(t *testing.T) {
	var b bytes.Buffer
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	L := NewTextLogger(&b, lvl)
	L.WithPhase("cv").WithObject(7).Info("hidden")
	L.WithPhase("cv").WithObject(7).Warn("shown")
	assert.NotContains(t, b.String(), "hidden")
	assert.Contains(t, b.String(), "phase=cv")
	assert.Contains(t, b.String(), "object=7")
	_, err = ParseLevel("verbose")
	assert.Error(t, err)
	var nl *Logger
	nl.OrNoop().Error("discarded")
	assert.Equal(t, slog.LevelDebug, mustLevel(t, "DEBUG"))
}

func mustLevel(t *testing.T, s string) slog.Level {
	l, err := ParseLevel(s)
	require.NoError(t, err)
	return l
}
