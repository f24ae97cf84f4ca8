/*
 * project.go, part of goqsar.
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

package project

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/rmera/goqsar"
	"github.com/rmera/goqsar/cv"
	"github.com/rmera/goqsar/extern"
	"github.com/rmera/goqsar/field"
	"github.com/rmera/goqsar/pls"
	"github.com/rmera/goqsar/pool"
	"github.com/rmera/goqsar/store"
)

//Project is a data set with its configuration. The configuration is
//not modified by the project, and must not be modified while a phase runs.
type Project struct {
	Config *qsar.Config
	Set    *field.FieldSet
	Log    *qsar.Logger
	Dir    string //private temporary directory

	fieldOpts field.Options
	closeOnce sync.Once
	closeErr  error
}

//Model is the result of BuildModel.
type Model struct {
	PLS      *pls.Model
	Matrices *field.Matrices
	Fit      *pls.Fit
	File     string //model file
	Archive  string //coefficient archive
}

//New verifies the configuration, and creates the temporary directory for a project
//on the data set.
func New(cfg *qsar.Config, set *field.FieldSet, log *qsar.Logger) (*Project, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	fo, err := field.OptionsFromConfig(cfg.PLS)
	if err != nil {
		return nil, err
	}
	if _, err := cv.ParseKind(cfg.CV.Kind); err != nil {
		return nil, err
	}
	P := &Project{Config: cfg, Set: set, Log: log.OrNoop(), fieldOpts: fo}
	P.Dir = filepath.Join(cfg.WorkDir, "goqsar-"+uuid.NewString())
	if err := os.MkdirAll(P.Dir, 0755); err != nil {
		return nil, fmt.Errorf("goqsar/project: can't create work directory %s: %w", P.Dir, err)
	}
	P.Log.Debug("project created", "dir", P.Dir, "objects", len(set.Objects))
	return P, nil
}

//Engine returns the engine described in the configuration: an external program if
//a command is given, retried on the configured failure signature, or the
//built-in probe otherwise.
func (P *Project) Engine() extern.Engine {
	c := P.Config.Engine
	if c.Command == "" {
		return extern.NewProbe()
	}
	return extern.NewRetry(extern.NewProgram(c), c, P.Log)
}

//AddField adds a field of the given kind, on the grid of the configuration, and returns its index.
func (P *Project) AddField(name string, kind extern.FieldKind) int {
	return P.Set.AddField(name, kind, extern.NewGridSpec(P.Config.Grid))
}

//ComputeField computes field f for all the objects with eng.
func (P *Project) ComputeField(eng extern.Engine, f int) ([]pool.TaskRecord, error) {
	dir := filepath.Join(P.Dir, "fields")
	recs, err := field.Compute(P.Set, f, eng, P.Config.Threads, dir, P.Log)
	if err != nil {
		P.Log.Error("field computation failed", "field", P.Set.Fields[f].Name, "err", err)
	}
	return recs, qsar.ErrDecorate(err, "ComputeField")
}

func (P *Project) assembler() (*field.Assembler, error) {
	asm, err := field.NewAssembler(P.Set, P.fieldOpts)
	if err != nil {
		return nil, qsar.ErrDecorate(err, "assembler")
	}
	return asm, nil
}

func (P *Project) path(name, def string) string {
	if name != "" {
		return name
	}
	return filepath.Join(P.Dir, def)
}

//BuildModel builds a PLS model for the active objects, fields and responses, with the
//number of components in the configuration, and writes the model file and the
//coefficient archive. If any of the files can't be written, neither is left behind.
func (P *Project) BuildModel() (*Model, error) {
	log := P.Log.WithPhase("model")
	asm, err := P.assembler()
	if err != nil {
		return nil, err
	}
	mats, err := asm.Build(nil)
	if err != nil {
		return nil, qsar.ErrDecorate(err, "BuildModel")
	}
	M, err := pls.Build(mats.X, mats.Y, P.Config.PLS.PCs)
	if err != nil {
		return nil, qsar.ErrDecorate(err, "BuildModel")
	}
	if M.StarFallback {
		log.Warn("P'W is singular, using the X-weights instead of the X*-weights")
	}
	for k := 0; k < M.PCs; k++ {
		if !M.Converged(k) {
			log.Warn("NIPALS did not converge", "component", k+1, "iterations", pls.MaxIter)
		}
	}
	ret := &Model{PLS: M, Matrices: mats, File: P.path(P.Config.PLS.ModelFile, "model.bin"), Archive: P.path(P.Config.PLS.ArchiveFile, "coefficients.zst")}
	nx, _ := M.W.Dims()
	W, err := store.CreateModel(ret.File, M.PCs, len(mats.YVars), nx, mats.Objects)
	if err != nil {
		return nil, err
	}
	A, err := store.CreateArchive(ret.Archive, M.PCs, nx, len(mats.YVars))
	if err != nil {
		W.Abort()
		return nil, err
	}
	if err := M.Emit(pls.Tee(W, A), mats.Weights, mats.YMean); err != nil {
		W.Abort()
		A.Abort()
		return nil, qsar.ErrDecorate(err, "BuildModel")
	}
	if err := W.Close(); err != nil {
		A.Abort()
		return nil, err
	}
	if err := A.Close(); err != nil {
		os.Remove(ret.File)
		return nil, err
	}
	ret.Fit = pls.FitStats(M, mats.Y, mats.Weights)
	log.WithFile(ret.File).Info("model built", "pcs", M.PCs, "objects", len(mats.Objects), "variables", nx, "r2", ret.Fit.R2.At(M.PCs, 0), "sdec", ret.Fit.SDEC.At(M.PCs, 0))
	return ret, nil
}

//CrossValidate cross-validates the model with the scheme in the configuration.
func (P *Project) CrossValidate() (*cv.Result, error) {
	asm, err := P.assembler()
	if err != nil {
		return nil, err
	}
	opts, err := cv.OptionsFromConfig(P.Config.CV, P.Config.PLS.PCs, P.Log)
	if err != nil {
		return nil, err
	}
	R, err := cv.Run(asm, opts)
	return R, qsar.ErrDecorate(err, "CrossValidate")
}

//PCA returns a principal component analysis of the X matrix, with pcs components.
func (P *Project) PCA(pcs int) (*pls.PCAModel, error) {
	asm, err := P.assembler()
	if err != nil {
		return nil, err
	}
	mats, err := asm.Build(nil)
	if err != nil {
		return nil, qsar.ErrDecorate(err, "PCA")
	}
	M, err := pls.PCA(mats.X, pcs)
	return M, qsar.ErrDecorate(err, "PCA")
}

//Close removes the temporary directory. It can be called more than once.
func (P *Project) Close() error {
	P.closeOnce.Do(func() {
		P.closeErr = os.RemoveAll(P.Dir)
	})
	return P.closeErr
}

//exit is replaced in tests.
var exit = os.Exit

//TrapSignals makes the process remove the temporary directory and exit
//if it receives SIGINT or SIGTERM. Running phases are not stopped gracefully.
//The returned function stops trapping the signals.
func (P *Project) TrapSignals() func() {
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case s := <-ch:
			P.Log.Warn("signal received, cleaning up", "signal", s.String(), "dir", P.Dir)
			P.Close()
			exit(1)
		case <-done:
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
