/*
 * retry.go, part of goqsar.
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

package extern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rmera/goqsar"
)

//DefaultMaxAttempts is the number of times Retry runs an engine if MaxAttempts is not set.
const DefaultMaxAttempts = 5

//Retry wraps an engine that sometimes fails for no good reason, with a recognizable
//message. When the wrapped engine fails and the failure contains Signature,
//the computation is repeated, up to MaxAttempts times in total.
//Other failures are returned right away.
type Retry struct {
	Engine      Engine
	Signature   string
	MaxAttempts int
	Log         *qsar.Logger
}

//NewRetry returns eng wrapped so failures with the configured signature are retried.
//If no signature is configured, eng is returned unchanged.
func NewRetry(eng Engine, c qsar.EngineConfig, log *qsar.Logger) Engine {
	if c.RetrySignature == "" {
		return eng
	}
	return &Retry{Engine: eng, Signature: c.RetrySignature, MaxAttempts: c.MaxAttempts, Log: log}
}

func (R *Retry) matches(err error) bool {
	if R.Signature == "" {
		return false
	}
	var e *Error
	if errors.As(err, &e) && strings.Contains(e.Detail(), R.Signature) {
		return true
	}
	return strings.Contains(err.Error(), R.Signature)
}

func (R *Retry) Compute(mol *qsar.Object, grid GridSpec, kind FieldKind, dir string) ([]float64, error) {
	max := R.MaxAttempts
	if max <= 0 {
		max = DefaultMaxAttempts
	}
	log := R.Log.OrNoop().WithObject(mol.ObjectID)
	for attempt := 1; ; attempt++ {
		vals, err := R.Engine.Compute(mol, grid, kind, dir)
		if err == nil {
			return vals, nil
		}
		if !R.matches(err) {
			return nil, err
		}
		if attempt >= max {
			e := &Error{kind: Flaky, input: mol.Name, message: fmt.Sprintf("%d attempts failed, last: %s", attempt, err.Error()), deco: []string{"Retry.Compute"}, critical: true}
			var inner *Error
			if errors.As(err, &inner) {
				e.program = inner.program
				e.filename = inner.filename
				e.detail = inner.detail
			}
			return nil, e
		}
		log.Warn("retrying field computation", "attempt", attempt, "max", max, "kind", kind.String())
	}
}
