package field

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rmera/goqsar"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Histogram is the distribution of the values of a field. It helps to
//choose the limits for Cutoff.
type Histogram struct {
	Dividers []float64 //bin i holds the values in [Dividers[i], Dividers[i+1])
	Counts   []float64
	Total    int //values counted, NaNs are not.
}

//Histogram returns the distribution of the values of the operate variables of
//field f, for the active objects, in bins bins of the same width.
//It returns nil if there are no values.
func (S *FieldSet) Histogram(f, bins int) *Histogram {
	if bins < 1 {
		bins = 1
	}
	F := S.Fields[f]
	vars := F.OperateVars()
	data := make([]float64, 0, len(vars)*len(S.Objects))
	for _, o := range S.Objects.Indexes(qsar.Active) {
		for _, v := range vars {
			if x := S.XValue(f, o, v); !math.IsNaN(x) {
				data = append(data, x)
			}
		}
	}
	if len(data) == 0 {
		return nil
	}
	sort.Float64s(data)
	min, max := data[0], data[len(data)-1]
	if max == min {
		max = min + 1
	}
	H := &Histogram{Dividers: floats.Span(make([]float64, bins+1), min, max), Total: len(data)}
	//stat.Histogram needs the largest value to be strictly below the last divider.
	H.Dividers[bins] = math.Nextafter(max, math.Inf(1))
	H.Counts = stat.Histogram(nil, H.Dividers, data, nil)
	return H
}

//Normalized returns the fraction of the values in each bin.
func (H *Histogram) Normalized() []float64 {
	ret := make([]float64, len(H.Counts))
	if H.Total > 0 {
		floats.ScaleTo(ret, 1/float64(H.Total), H.Counts)
	}
	return ret
}

func (H *Histogram) String() string {
	var b strings.Builder
	for i, c := range H.Counts {
		fmt.Fprintf(&b, "[%10.4f, %10.4f) %d\n", H.Dividers[i], H.Dividers[i+1], int(c))
	}
	return b.String()
}
