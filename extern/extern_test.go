package extern

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/goqsar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func water() *qsar.Object {
	return qsar.NewObject(3, "water", []*qsar.Atom{
		{Symbol: "O", Coords: [3]float64{0, 0, 0}, Charge: -0.834},
		{Symbol: "H", Coords: [3]float64{0.9572, 0, 0}, Charge: 0.417},
		{Symbol: "H", Coords: [3]float64{-0.2399, 0.9266, 0}, Charge: 0.417},
	})
}

func smallGrid() GridSpec {
	return GridSpec{Origin: [3]float64{-3, -3, -3}, Step: 6, Nodes: [3]int{2, 2, 2}}
}

func needShell(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh in PATH")
	}
}

func TestGridNodes(t *testing.T) {
	g := GridSpec{Origin: [3]float64{1, 2, 3}, Step: 0.5, Nodes: [3]int{3, 2, 4}}
	assert.Equal(t, 24, g.Len())
	assert.Equal(t, [3]float64{1, 2, 3}, g.Node(0))
	assert.Equal(t, [3]float64{2, 2, 3}, g.Node(2))
	assert.Equal(t, [3]float64{1, 2.5, 3}, g.Node(3))
	assert.Equal(t, [3]float64{2, 2.5, 4.5}, g.Node(23))
}

func TestParseKind(t *testing.T) {
	for k := Steric; k <= MDGrid; k++ {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("gravity")
	assert.Error(t, err)
}

func TestProgram(t *testing.T) {
	needShell(t)
	dir := t.TempDir()
	P := &Program{
		Command: "sh",
		Args:    []string{"-c", "test -s {xyz} && test -s {grid} && for i in 1 2 3 4 5 6 7 8; do echo $i.5; done > {name}.val; echo 'normal termination of {kind}'"},
		Marker:  "normal termination",
		Output:  "{name}.val",
	}
	vals, err := P.Compute(water(), smallGrid(), Steric, dir)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5}, vals)
	out, err := os.ReadFile(filepath.Join(dir, "obj00003.out"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "normal termination of steric")
}

func TestProgramFailures(t *testing.T) {
	needShell(t)
	cases := []struct {
		name string
		prog *Program
		mol  *qsar.Object
		kind Kind
	}{
		{"cant start", &Program{Command: "/nonexistent/mif-program"}, water(), CantStart},
		{"exit status", &Program{Command: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}}, water(), Abnormal},
		{"no marker", &Program{Command: "sh", Args: []string{"-c", "echo 1 2 3 4 5 6 7 8"}, Marker: "all done"}, water(), Abnormal},
		{"no output", &Program{Command: "sh", Args: []string{"-c", "echo all done"}, Marker: "all done", Output: "missing.val"}, water(), NoOutput},
		{"short output", &Program{Command: "sh", Args: []string{"-c", "echo 1 2 3"}}, water(), NoOutput},
		{"unknown atom", &Program{Command: "sh", Args: []string{"-c", "exit 0"}}, qsar.NewObject(1, "odd", []*qsar.Atom{{Symbol: "Xx"}}), UnknownAtom},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.prog.Compute(c.mol, smallGrid(), Steric, t.TempDir())
			require.Error(t, err)
			var e *Error
			require.True(t, errors.As(err, &e), "unexpected error type %T", err)
			assert.Equal(t, c.kind, e.Kind())
			assert.Equal(t, int(c.kind), Code(err))
		})
	}
}

func TestAbnormalDetail(t *testing.T) {
	needShell(t)
	P := &Program{Command: "sh", Args: []string{"-c", "echo 'segmentation fault in solver' >&2; exit 139"}}
	_, err := P.Compute(water(), smallGrid(), Steric, t.TempDir())
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Contains(t, e.Detail(), "segmentation fault")
	assert.True(t, strings.HasSuffix(e.FileName(), ".err"))
}

func TestSearchBackwards(t *testing.T) {
	name := filepath.Join(t.TempDir(), "long.out")
	var sb strings.Builder
	for i := 0; i < 3000; i++ {
		sb.WriteString("some line of output that is not interesting at all\n")
	}
	sb.WriteString("** program terminated normally **\n")
	for i := 0; i < 200; i++ {
		sb.WriteString("trailing line\n")
	}
	require.NoError(t, os.WriteFile(name, []byte(sb.String()), 0644))
	assert.Equal(t, "** program terminated normally **", searchBackwards("terminated normally", name))
	assert.Equal(t, "", searchBackwards("never printed", name))
	assert.Equal(t, "", searchBackwards("anything", filepath.Join(t.TempDir(), "absent")))
}

func TestRetry(t *testing.T) {
	calls := 0
	failing := func(n int) Func {
		return func(mol *qsar.Object, grid GridSpec, kind FieldKind, dir string) ([]float64, error) {
			calls++
			if calls <= n {
				return nil, &Error{kind: Abnormal, program: "fake", input: mol.Name, detail: "error: SCF did not converge", critical: true}
			}
			return make([]float64, grid.Len()), nil
		}
	}
	R := &Retry{Engine: failing(3), Signature: "SCF did not converge", MaxAttempts: 5}
	vals, err := R.Compute(water(), smallGrid(), QMPotential, t.TempDir())
	require.NoError(t, err)
	assert.Len(t, vals, 8)
	assert.Equal(t, 4, calls)

	calls = 0
	R = &Retry{Engine: failing(100), Signature: "SCF did not converge"}
	_, err = R.Compute(water(), smallGrid(), QMPotential, t.TempDir())
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, Flaky, e.Kind())
	assert.Equal(t, DefaultMaxAttempts, calls)

	//other failures are not retried
	calls = 0
	R = &Retry{Engine: failing(100), Signature: "license server down"}
	_, err = R.Compute(water(), smallGrid(), QMPotential, t.TempDir())
	require.True(t, errors.As(err, &e))
	assert.Equal(t, Abnormal, e.Kind())
	assert.Equal(t, 1, calls)
}

func TestProbe(t *testing.T) {
	P := NewProbe()
	g := GridSpec{Origin: [3]float64{-6, -6, -6}, Step: 1, Nodes: [3]int{13, 13, 13}}
	st, err := P.Compute(water(), g, Steric, "")
	require.NoError(t, err)
	el, err := P.Compute(water(), g, Electrostatic, "")
	require.NoError(t, err)
	require.Len(t, st, g.Len())
	center := 6 + 13*(6+13*6) //node on the oxygen
	assert.Equal(t, 30.0, st[center])
	assert.Equal(t, -30.0, el[center])
	for i := range st {
		assert.LessOrEqual(t, st[i], 30.0)
		assert.GreaterOrEqual(t, el[i], -30.0)
		assert.LessOrEqual(t, el[i], 30.0)
	}
	//far from the molecule the steric field is small and attractive.
	assert.Less(t, st[0], 0.0)
	assert.Greater(t, st[0], -0.1)
	_, err = P.Compute(water(), g, Cosmo, "")
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, Unsupported, e.Kind())
}
