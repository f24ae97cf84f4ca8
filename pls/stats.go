package pls

import (
	"math"

	"github.com/rmera/goqsar/dense"
	"gonum.org/v1/gonum/floats"
)

//Fit holds the goodness of fit of a model. Rows are numbers of
//components, from 0 to the model's PCs, and columns are responses.
type Fit struct {
	R2   *dense.Matrix
	SDEC *dense.Matrix //standard deviation of the error of calculation
}

//FitStats returns the goodness of fit of M for the weighted and centered responses y used
//to build it. weights are the weights of the objects.
func FitStats(M *Model, y *dense.Matrix, weights []float64) *Fit {
	n, ny := y.Dims()
	F := &Fit{R2: dense.NewMatrix(M.PCs+1, ny), SDEC: dense.NewMatrix(M.PCs+1, ny)}
	sw := floats.Sum(weights)
	s := M.newScratch()
	res := make([]float64, n)
	for i := 0; i <= M.PCs; i++ {
		if i == 0 {
			s.yhat.Zero()
		} else {
			s.ts.SomeCols(M.T, i)
			s.cs.SomeCols(M.C, i)
			mul(false, true, 1, s.ts, s.cs, 0, s.yhat)
		}
		for j := 0; j < ny; j++ {
			yc := y.Col(j)
			floats.SubTo(res, yc, s.yhat.Col(j))
			ssres := floats.Dot(res, res)
			sstot := floats.Dot(yc, yc)
			r2 := 0.0
			if sstot > dense.AlmostZero {
				r2 = 1 - ssres/sstot
			}
			F.R2.Set(i, j, r2)
			F.SDEC.Set(i, j, math.Sqrt(ssres/sw))
		}
	}
	return F
}
