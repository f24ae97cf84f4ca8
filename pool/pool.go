/*
 * pool.go, part of goqsar.
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

package pool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var ErrNilTask = errors.New("goqsar/pool: nil task function")
var ErrNegativeTasks = errors.New("goqsar/pool: negative number of tasks")

//TaskFunc performs the task for index on behalf of worker. It must not
//fail across the pool boundary: it reports its outcome in rec, which
//belongs to index and is not shared with other workers.
type TaskFunc func(worker, index int, rec *TaskRecord)

type options struct {
	counter bool
}

//Option configures Run.
type Option func(*options)

//WithCounterClaim makes the workers claim indexes with an atomic counter
//instead of scanning the claim flags under the mutex. Every index is still
//claimed exactly once.
func WithCounterClaim() Option {
	return func(o *options) {
		o.counter = true
	}
}

type claimer interface {
	claim() (int, bool)
}

//scanClaimer gives the first unclaimed index. The scan starts from 0
//on every claim, which is quadratic on the number of tasks, but the
//number of tasks (molecules or folds) is small.
type scanClaimer struct {
	mu      sync.Mutex
	claimed []bool
}

func (c *scanClaimer) claim() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, v := range c.claimed {
		if !v {
			c.claimed[i] = true
			return i, true
		}
	}
	return -1, false
}

type counterClaimer struct {
	next atomic.Int64
	n    int64
}

func (c *counterClaimer) claim() (int, bool) {
	i := c.next.Add(1) - 1
	if i >= c.n {
		return -1, false
	}
	return int(i), true
}

//Run runs task for every index in [0, n) using threads workers, and returns one
//record per index. Workers are created for this call and all of them
//have exited when Run returns. Each worker is locked to its own OS thread
//and claims one index at a time until no index is left. There is no ordering
//among indexes, and no short-circuit: a failing task doesn't stop the others.
//If threads is 0 or less, runtime.NumCPU() workers are used. Run only returns an
//error if the pool itself can't work; task failures are in the records (see Check).
func Run(n, threads int, task TaskFunc, opts ...Option) ([]TaskRecord, error) {
	if task == nil {
		return nil, ErrNilTask
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeTasks, n)
	}
	o := new(options)
	for _, f := range opts {
		f(o)
	}
	records := make([]TaskRecord, n)
	for i := range records {
		records[i].Index = i
		records[i].Worker = -1
	}
	if n == 0 {
		return records, nil
	}
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if threads > n {
		threads = n
	}
	var cl claimer
	if o.counter {
		cl = &counterClaimer{n: int64(n)}
	} else {
		cl = &scanClaimer{claimed: make([]bool, n)}
	}
	var g errgroup.Group
	for w := 0; w < threads; w++ {
		worker := w
		g.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			for {
				i, ok := cl.claim()
				if !ok {
					return nil
				}
				rec := &records[i]
				rec.Worker = worker
				protect(task, worker, i, rec)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return records, err
	}
	return records, nil
}

//protect runs the task, turning a panic into a failed record.
func protect(task TaskFunc, worker, index int, rec *TaskRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec.Code = CodePanic
			rec.Message = fmt.Sprintf("panic: %v", r)
			rec.Where = "recovered by pool.Run"
			if err, ok := r.(error); ok {
				rec.Err = err
			} else {
				rec.Err = errors.New(rec.Message)
			}
		}
	}()
	task(worker, index, rec)
}
