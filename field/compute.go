/*
 * compute.go, part of goqsar.
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

package field

import (
	"fmt"
	"path/filepath"

	"github.com/rmera/goqsar"
	"github.com/rmera/goqsar/extern"
	"github.com/rmera/goqsar/pool"
)

//Compute obtains the values of field f for every object in the set, using eng in
//threads parallel workers. Each object gets its own directory under dir.
//The Done attribute of each object and any previous values of the field are
//cleared before starting, so an object that fails keeps no stale values.
//Every object is attempted. If any fails, the returned error is a *pool.PhaseError,
//and the records tell which objects failed and why.
func Compute(set *FieldSet, f int, eng extern.Engine, threads int, dir string, log *qsar.Logger) ([]pool.TaskRecord, error) {
	F := set.Fields[f]
	log = log.OrNoop().WithPhase("field")
	set.Objects.SetAll(qsar.Done, false)
	set.clear(f)
	log.Info("computing field", "field", F.Name, "kind", F.Kind.String(), "objects", len(set.Objects), "nodes", F.NVars(), "threads", threads)
	task := func(worker, index int, rec *pool.TaskRecord) {
		obj := set.Objects[index]
		odir := filepath.Join(dir, fmt.Sprintf("%s-%05d", F.Name, obj.ObjectID))
		vals, err := eng.Compute(obj, F.Grid, F.Kind, odir)
		if err != nil {
			rec.Fail(extern.Code(err), err)
			log.WithObject(obj.ObjectID).Error("field computation failed", "field", F.Name, "err", err)
			return
		}
		if err := set.SetValues(f, index, vals); err != nil {
			rec.Fail(int(extern.NoOutput), err)
			return
		}
		obj.Set(qsar.Done)
	}
	recs, err := pool.Run(len(set.Objects), threads, task)
	if err != nil {
		return recs, qsar.ErrDecorate(err, "field.Compute")
	}
	if err := pool.Check("field "+F.Name, recs); err != nil {
		return recs, err
	}
	log.Info("field computed", "field", F.Name)
	return recs, nil
}
