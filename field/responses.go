package field

import "math"

//Responses holds the values of the dependent (Y) variables for each object.
type Responses struct {
	Names  []string
	active []bool
	values [][]float64 //one slice per response, one value per object.
}

//NewResponses returns a set of active responses for nobj objects, all with NaN values.
func NewResponses(nobj int, names ...string) *Responses {
	R := &Responses{Names: names, active: make([]bool, len(names)), values: make([][]float64, len(names))}
	for i := range names {
		R.active[i] = true
		R.values[i] = make([]float64, nobj)
		for j := range R.values[i] {
			R.values[i][j] = math.NaN()
		}
	}
	return R
}

//Len returns the number of responses, active or not.
func (R *Responses) Len() int { return len(R.Names) }

//At returns the value of response y for object o.
func (R *Responses) At(o, y int) float64 { return R.values[y][o] }

//Set sets the value of response y for object o.
func (R *Responses) Set(o, y int, v float64) { R.values[y][o] = v }

func (R *Responses) Active(y int) bool { return R.active[y] }

func (R *Responses) SetActive(y int, on bool) { R.active[y] = on }

//ActiveIndexes returns the indexes of the active responses.
func (R *Responses) ActiveIndexes() []int {
	ret := make([]int, 0, len(R.active))
	for i, a := range R.active {
		if a {
			ret = append(ret, i)
		}
	}
	return ret
}

func (R *Responses) column(y int, rows []int) []float64 {
	ret := make([]float64, len(rows))
	for i, o := range rows {
		ret[i] = R.values[y][o]
	}
	return ret
}
