/*
 * folds.go, part of goqsar.
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

package cv

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rmera/goqsar"
	"github.com/rmera/goqsar/dense"
)

var (
	ErrTooFewObjects = errors.New("goqsar/cv: too few objects for the cross-validation")
	ErrTooManyPCs    = errors.New("goqsar/cv: too many components for the training sets")
	ErrBadGroups     = errors.New("goqsar/cv: invalid number of groups or runs")
	ErrBadKind       = errors.New("goqsar/cv: unknown cross-validation kind")
)

//Kind is a cross-validation scheme.
type Kind int

const (
	LeaveOneOut Kind = iota
	LeaveTwoOut
	LeaveManyOut
)

func (k Kind) String() string {
	switch k {
	case LeaveOneOut:
		return "loo"
	case LeaveTwoOut:
		return "lto"
	case LeaveManyOut:
		return "lmo"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

//ParseKind returns the Kind for the names used in the configuration (loo, lto and lmo).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "loo", "":
		return LeaveOneOut, nil
	case "lto":
		return LeaveTwoOut, nil
	case "lmo":
		return LeaveManyOut, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadKind, s)
}

//Leave-many-out defaults, used when Options.Groups or Options.Runs is zero.
const (
	DefaultGroups = 5
	DefaultRuns   = 20
)

//Options for a cross-validation.
type Options struct {
	Kind    Kind
	PCs     int
	Groups  int   //leave-many-out only, DefaultGroups if zero
	Runs    int   //leave-many-out only, DefaultRuns if zero
	Seed    int64 //leave-many-out only. Run r uses a generator seeded with Seed+r.
	Threads int   //1 runs the folds sequentially
	Log     *qsar.Logger
}

//withDefaults returns a copy of O with the leave-many-out defaults in place of
//zero groups or runs. Negative values are kept, and rejected later.
func (O Options) withDefaults() Options {
	if O.Kind != LeaveManyOut {
		return O
	}
	if O.Groups == 0 {
		O.Groups = DefaultGroups
	}
	if O.Runs == 0 {
		O.Runs = DefaultRuns
	}
	return O
}

//OptionsFromConfig returns the Options given in the configuration, for pcs components.
func OptionsFromConfig(c qsar.CVConfig, pcs int, log *qsar.Logger) (Options, error) {
	k, err := ParseKind(c.Kind)
	if err != nil {
		return Options{}, err
	}
	return Options{Kind: k, PCs: pcs, Groups: c.Groups, Runs: c.Runs, Seed: c.Seed, Threads: c.Threads, Log: log}, nil
}

//check verifies that the scheme can be used with n objects.
func check(kind Kind, n, groups, runs int) error {
	switch kind {
	case LeaveOneOut:
		if n < 2 {
			return fmt.Errorf("%w: leave-one-out needs 2, got %d", ErrTooFewObjects, n)
		}
	case LeaveTwoOut:
		if n < 3 {
			return fmt.Errorf("%w: leave-two-out needs 3, got %d", ErrTooFewObjects, n)
		}
	case LeaveManyOut:
		if groups < 2 || runs < 1 {
			return fmt.Errorf("%w: %d groups, %d runs", ErrBadGroups, groups, runs)
		}
		if n < groups {
			return fmt.Errorf("%w: %d groups for %d objects", ErrTooFewObjects, groups, n)
		}
	default:
		return fmt.Errorf("%w: %d", ErrBadKind, int(kind))
	}
	return nil
}

//perObject returns how many times each object is predicted.
func perObject(kind Kind, n, runs int) int {
	switch kind {
	case LeaveTwoOut:
		return n - 1
	case LeaveManyOut:
		return runs
	}
	return 1
}

//training returns the size of the smallest training set.
func training(kind Kind, n, groups int) int {
	switch kind {
	case LeaveTwoOut:
		return n - 2
	case LeaveManyOut:
		return n - (n+groups-1)/groups
	}
	return n - 1
}

//Folds returns the objects held out in each fold, for the given objects.
//Leave-one-out gives one fold per object, leave-two-out one per pair, and
//leave-many-out groups folds for each of the runs.
func Folds(kind Kind, objects []int, groups, runs int, seed int64) ([][]int, error) {
	n := len(objects)
	if err := check(kind, n, groups, runs); err != nil {
		return nil, err
	}
	var ret [][]int
	switch kind {
	case LeaveOneOut:
		ret = make([][]int, 0, n)
		for _, o := range objects {
			ret = append(ret, []int{o})
		}
	case LeaveTwoOut:
		ret = make([][]int, 0, n*(n-1)/2)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				ret = append(ret, []int{objects[i], objects[j]})
			}
		}
	case LeaveManyOut:
		ret = make([][]int, 0, groups*runs)
		for r := 0; r < runs; r++ {
			rnd := rand.New(rand.NewSource(seed + int64(r)))
			perm := rnd.Perm(n)
			grp := make([]*dense.Index, groups)
			for g := range grp {
				grp[g] = dense.NewIndexData(make([]int, 0, n/groups+1))
			}
			for k, p := range perm {
				grp[k%groups].Append(objects[p])
			}
			for _, g := range grp {
				g.Sort()
				ret = append(ret, g.Raw())
			}
		}
	}
	return ret, nil
}
