/*
 * task.go, part of goqsar.
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
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	CodeOK     = 0
	CodeFailed = 1 //generic failure, used when the task gives no code.
	CodePanic  = 2 //the task panicked, the panic was recovered by the pool.
)

//TaskRecord is the outcome of one task in a phase. There is one record per
//index, created by Run before the workers start. The worker that claims
//the index is the only one that writes the record, and the orchestrator
//reads it only after all workers have joined.
type TaskRecord struct {
	Index   int
	Worker  int //the worker that claimed the index, -1 if never claimed.
	Code    int //0 means success.
	Message string
	Where   string //file:line of the code that reported the failure.
	Err     error
}

//Fail marks the record as failed with the given code and error.
//A zero code is replaced by CodeFailed.
func (R *TaskRecord) Fail(code int, err error) {
	if code == CodeOK {
		code = CodeFailed
	}
	R.Code = code
	R.Err = err
	if err != nil {
		R.Message = err.Error()
	}
	R.Where = caller(2)
}

//Failed returns true if the task reported a failure.
func (R *TaskRecord) Failed() bool {
	return R.Code != CodeOK
}

func (R *TaskRecord) String() string {
	if !R.Failed() {
		return fmt.Sprintf("task %d: ok (worker %d)", R.Index, R.Worker)
	}
	return fmt.Sprintf("task %d: code %d: %s (%s, worker %d)", R.Index, R.Code, R.Message, R.Where, R.Worker)
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

//Failed returns the records that reported a failure, in index order.
func Failed(records []TaskRecord) []TaskRecord {
	ret := make([]TaskRecord, 0)
	for _, r := range records {
		if r.Failed() {
			ret = append(ret, r)
		}
	}
	return ret
}

//Check returns a *PhaseError with the per-task breakdown if any of the
//records reports a failure, and nil otherwise.
func Check(phase string, records []TaskRecord) error {
	failed := Failed(records)
	if len(failed) == 0 {
		return nil
	}
	return &PhaseError{Phase: phase, Total: len(records), Failed: failed, deco: []string{"Check"}}
}

//PhaseError reports a phase where some tasks failed. All the tasks
//of the phase were attempted.
type PhaseError struct {
	Phase  string
	Total  int
	Failed []TaskRecord
	deco   []string
}

func (E *PhaseError) Error() string {
	lines := make([]string, 0, len(E.Failed)+1)
	lines = append(lines, fmt.Sprintf("goqsar/pool: %s: %d of %d tasks failed", E.Phase, len(E.Failed), E.Total))
	for i := range E.Failed {
		lines = append(lines, "  "+E.Failed[i].String())
	}
	return strings.Join(lines, "\n")
}

//Decorate adds the caller to the decoration trail of the error.
func (E *PhaseError) Decorate(dec string) []string {
	if dec != "" {
		E.deco = append(E.deco, dec)
	}
	return E.deco
}

//Critical is always true: the phase as a whole failed.
func (E *PhaseError) Critical() bool { return true }

//Indexes returns the indexes of the failed tasks.
func (E *PhaseError) Indexes() []int {
	ret := make([]int, len(E.Failed))
	for i, r := range E.Failed {
		ret[i] = r.Index
	}
	return ret
}
