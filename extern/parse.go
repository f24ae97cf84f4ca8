package extern

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//Parser reads n field values from the output of an engine.
type Parser interface {
	Parse(r io.Reader, n int) ([]float64, error)
}

//PlainParser reads whitespace-separated numbers, in grid node order.
//Empty lines and lines starting with '#' are ignored.
//It is an error to find less or more than n values.
type PlainParser struct{}

func (PlainParser) Parse(r io.Reader, n int) ([]float64, error) {
	ret := make([]float64, 0, n)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		l := strings.TrimSpace(sc.Text())
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		for _, field := range strings.Fields(l) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if len(ret) == n {
				return nil, fmt.Errorf("line %d: more than the %d values expected", line, n)
			}
			ret = append(ret, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(ret) != n {
		return nil, fmt.Errorf("found %d values, expected %d", len(ret), n)
	}
	return ret, nil
}
