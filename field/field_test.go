package field

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rmera/goqsar"
	"github.com/rmera/goqsar/extern"
	"github.com/rmera/goqsar/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func objects(n int) qsar.Objects {
	ret := make(qsar.Objects, n)
	for i := range ret {
		ret[i] = qsar.NewObject(i, fmt.Sprintf("mol%d", i), []*qsar.Atom{{Symbol: "C"}})
	}
	return ret
}

//testSet returns a set with 6 objects, one field of 4 variables and one response.
//Variable 3 is constant.
func testSet(t *testing.T) *FieldSet {
	S := NewFieldSet(objects(6), "pIC50")
	f := S.AddField("steric", extern.Steric, extern.GridSpec{Step: 1, Nodes: [3]int{4, 1, 1}})
	for o := range S.Objects {
		x := float64(o)
		require.NoError(t, S.SetValues(f, o, []float64{x, x * x, 10 - x, 7}))
		S.Y.Set(o, 0, 2*x+1)
	}
	return S
}

func TestValues(t *testing.T) {
	S := testSet(t)
	assert.Equal(t, 4.0, S.XValue(0, 2, 1))
	S.SetXValue(0, 2, 1, -3)
	assert.Equal(t, -3.0, S.XValue(0, 2, 1))
	err := S.SetValues(0, 1, []float64{1, 2})
	assert.True(t, errors.Is(err, ErrValueCount))

	g := S.AddField("elec", extern.Electrostatic, extern.GridSpec{Step: 1, Nodes: [3]int{2, 1, 1}})
	assert.True(t, math.IsNaN(S.XValue(g, 0, 0)))
	S.SetXValue(g, 0, 1, 5)
	assert.True(t, math.IsNaN(S.XValue(g, 0, 0)))
	assert.Equal(t, 5.0, S.XValue(g, 0, 1))
	assert.False(t, S.Fields[g].Computed(1))
}

func TestFilters(t *testing.T) {
	S := testSet(t)
	S.Cutoff(0, 0, 9)
	assert.Equal(t, 9.0, S.XValue(0, 0, 2))
	assert.Equal(t, 9.0, S.XValue(0, 5, 1))
	assert.Equal(t, 1, S.ZeroVariance())
	assert.False(t, S.Fields[0].Operate(3))
	assert.Equal(t, []int{0, 1, 2}, S.Fields[0].OperateVars())
	//after the cutoff, variable 2 goes from 9 to 5, SD about 1.49
	assert.Equal(t, 1, S.SDCut(0, 1.5))
	assert.Equal(t, []int{0, 1}, S.Fields[0].OperateVars())
	assert.Equal(t, 2, S.NVars())
}

func TestAssembler(t *testing.T) {
	S := testSet(t)
	S.ZeroVariance()
	S.Objects[4].Unset(qsar.Active)
	A, err := NewAssembler(S, Options{Scaling: AutoScaling})
	require.NoError(t, err)
	assert.Equal(t, 5, A.NObjects())
	assert.Equal(t, 3, A.NVars())

	M, err := A.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 5}, M.Objects)
	for j := 0; j < 3; j++ {
		col := M.X.Col(j)
		assert.InDelta(t, 0, floats.Sum(col), 1e-10)
		//auto scaling gives unit population variance
		assert.InDelta(t, float64(len(col)), floats.Dot(col, col), 1e-10)
	}
	assert.InDelta(t, 0, floats.Sum(M.Y.Col(0)), 1e-10)

	ex := roaring.BitmapOf(1, 5)
	F, err := A.Build(ex)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3}, F.Objects)
	//the folds keep the statistics of the full set
	assert.Equal(t, M.XMean, F.XMean)
	assert.Equal(t, M.X.At(2, 1), F.X.At(1, 1))
	row := F.Centered(5)
	assert.InDeltaSlice(t, M.X.Row(nil, 4), row, 1e-12)
}

func TestWeights(t *testing.T) {
	S := testSet(t)
	S.Objects[0].Weight = 4
	S.Objects[1].Weight = 0
	A, err := NewAssembler(S, Options{})
	require.NoError(t, err)
	M, err := A.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, M.X.At(1, 0))
	c := M.Centered(0)
	assert.InDelta(t, 2*c[0], M.X.At(0, 0), 1e-12)
	assert.Equal(t, []float64{4, 0, 1, 1, 1, 1}, M.Weights)

	_, err = A.Build(roaring.BitmapOf(0, 2, 3, 4, 5))
	assert.True(t, errors.Is(err, ErrNoObjects))
}

func TestAssemblerErrors(t *testing.T) {
	S := testSet(t)
	for o := range S.Objects {
		S.Y.Set(o, 0, 3+1e-6*float64(o%2))
	}
	_, err := NewAssembler(S, Options{})
	assert.True(t, errors.Is(err, ErrYLowSD))

	S = testSet(t)
	for v := 0; v < 4; v++ {
		S.Fields[0].SetOperate(v, false)
	}
	_, err = NewAssembler(S, Options{})
	assert.True(t, errors.Is(err, ErrNoVariables))

	S = testSet(t)
	S.Objects.SetAll(qsar.Active, false)
	_, err = NewAssembler(S, Options{})
	assert.True(t, errors.Is(err, ErrNoObjects))

	_, err = ParseScaling("pareto")
	assert.True(t, errors.Is(err, ErrBadScaling))
}

func TestBlockUnscaled(t *testing.T) {
	S := testSet(t)
	g := S.AddField("elec", extern.Electrostatic, extern.GridSpec{Step: 1, Nodes: [3]int{1, 1, 1}})
	for o := range S.Objects {
		require.NoError(t, S.SetValues(g, o, []float64{100 * float64(o)}))
	}
	S.ZeroVariance()
	A, err := NewAssembler(S, Options{Scaling: BlockUnscaled})
	require.NoError(t, err)
	M, err := A.Build(nil)
	require.NoError(t, err)
	blockvar := func(cols ...int) float64 {
		var s float64
		for _, j := range cols {
			c := M.X.Col(j)
			s += floats.Dot(c, c)
		}
		return s
	}
	assert.InDelta(t, blockvar(0, 1, 2), blockvar(3), 1e-9)
}

func TestCompute(t *testing.T) {
	S := NewFieldSet(objects(30))
	f := S.AddField("probe", extern.Steric, extern.GridSpec{Step: 1, Nodes: [3]int{3, 1, 1}})
	eng := extern.Func(func(mol *qsar.Object, grid extern.GridSpec, kind extern.FieldKind, dir string) ([]float64, error) {
		if mol.ObjectID%10 == 3 {
			return nil, fmt.Errorf("no luck for %d", mol.ObjectID)
		}
		v := float64(mol.ObjectID)
		return []float64{v, v, v}, nil
	})
	recs, err := Compute(S, f, eng, 4, t.TempDir(), nil)
	require.Error(t, err)
	var perr *pool.PhaseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, []int{3, 13, 23}, perr.Indexes())
	assert.Len(t, recs, 30)
	for i, o := range S.Objects {
		assert.NotEqual(t, -1, recs[i].Worker)
		if i%10 == 3 {
			assert.False(t, o.Has(qsar.Done))
			assert.Equal(t, int(extern.Abnormal), recs[i].Code)
			continue
		}
		assert.True(t, o.Has(qsar.Done))
		assert.Equal(t, float64(i), S.XValue(f, i, 2))
	}
}

func TestHistogram(t *testing.T) {
	S := testSet(t)
	S.Fields[0].SetOperate(3, false)
	H := S.Histogram(0, 5)
	require.NotNil(t, H)
	assert.Equal(t, 18, H.Total)
	assert.Len(t, H.Dividers, 6)
	assert.Equal(t, 18.0, floats.Sum(H.Counts))
	assert.InDelta(t, 1, floats.Sum(H.Normalized()), 1e-12)
	assert.Equal(t, 0.0, H.Dividers[0])
	assert.Greater(t, H.Dividers[5], 25.0)
	//x*x puts 16 and 25 in the last two bins
	assert.Equal(t, 1.0, H.Counts[4])
}

func TestRecomputeForgetsValues(t *testing.T) {
	S := testSet(t)
	fail := -1
	eng := extern.Func(func(mol *qsar.Object, grid extern.GridSpec, kind extern.FieldKind, dir string) ([]float64, error) {
		if mol.ObjectID == fail {
			return nil, fmt.Errorf("no luck for %d", mol.ObjectID)
		}
		v := float64(mol.ObjectID)
		return []float64{v, 2 * v, v * v, 1}, nil
	})
	_, err := Compute(S, 0, eng, 2, t.TempDir(), nil)
	require.NoError(t, err)
	assert.True(t, S.Fields[0].Computed(3))

	fail = 3
	_, err = Compute(S, 0, eng, 2, t.TempDir(), nil)
	require.Error(t, err)
	assert.False(t, S.Fields[0].Computed(3))
	assert.True(t, math.IsNaN(S.XValue(0, 3, 1)))
	assert.Equal(t, 8.0, S.XValue(0, 4, 1))
	_, err = NewAssembler(S, Options{})
	assert.True(t, errors.Is(err, ErrNotComputed))
}

func TestPartialValues(t *testing.T) {
	S := testSet(t)
	g := S.AddField("elec", extern.Electrostatic, extern.GridSpec{Step: 1, Nodes: [3]int{2, 1, 1}})
	for o := range S.Objects {
		S.SetXValue(g, o, 0, float64(o))
		if o != 2 {
			S.SetXValue(g, o, 1, float64(-o))
		}
	}
	assert.True(t, S.Fields[g].Computed(2))
	_, err := NewAssembler(S, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotComputed))
	assert.Contains(t, err.Error(), "variable 1")

	S.Objects[2].Unset(qsar.Active)
	_, err = NewAssembler(S, Options{})
	assert.NoError(t, err)
}
