/*
 * program.go, part of goqsar.
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
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rmera/goqsar"
)

//Program drives a command-line program that computes a field.
//For each molecule, Program writes NAME.xyz and NAME.grid in the molecule
//directory, runs the command there, with its standard output and error
//going to NAME.out and NAME.err, and then parses the values from the output file.
//
//The placeholders {name}, {xyz}, {grid}, {kind} and {dir} are expanded in Args
//and Output.
type Program struct {
	Name    string   //used in errors and logs. Defaults to the base name of Command.
	Command string   //executable to run.
	Args    []string //arguments for the executable.
	Marker  string   //text the program writes to its standard output when it terminates normally. Empty to skip the check.
	Output  string   //file with the values, relative to the molecule directory. Empty means the standard output.
	Parser  Parser   //reads the values. Defaults to PlainParser.
	Env     []string //extra environment variables, in the "KEY=value" form.
}

//NewProgram returns a Program set from the engine configuration.
func NewProgram(c qsar.EngineConfig) *Program {
	return &Program{
		Command: c.Command,
		Args:    append([]string(nil), c.Args...),
		Marker:  c.TerminationMarker,
		Output:  c.Output,
	}
}

func (P *Program) name() string {
	if P.Name != "" {
		return P.Name
	}
	return filepath.Base(P.Command)
}

//Compute runs the program for mol and returns its values on the grid.
func (P *Program) Compute(mol *qsar.Object, grid GridSpec, kind FieldKind, dir string) ([]float64, error) {
	prog := P.name()
	if err := checkAtoms(prog, mol); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("obj%05d", mol.ObjectID)
	newerr := func(k Kind, file, msg string) *Error {
		return &Error{kind: k, program: prog, input: mol.Name, filename: file, message: msg, deco: []string{"Compute"}, critical: true}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, newerr(CantStart, dir, err.Error())
	}
	if err := qsar.XYZFileWrite(filepath.Join(dir, name+".xyz"), mol); err != nil {
		return nil, newerr(CantStart, name+".xyz", err.Error())
	}
	if err := writeGrid(filepath.Join(dir, name+".grid"), grid, kind); err != nil {
		return nil, newerr(CantStart, name+".grid", err.Error())
	}
	repl := strings.NewReplacer("{name}", name, "{xyz}", name+".xyz", "{grid}", name+".grid", "{kind}", kind.String(), "{dir}", dir)
	args := make([]string, len(P.Args))
	for i, v := range P.Args {
		args[i] = repl.Replace(v)
	}
	outname := filepath.Join(dir, name+".out")
	errname := filepath.Join(dir, name+".err")
	out, err := os.Create(outname)
	if err != nil {
		return nil, newerr(CantStart, outname, err.Error())
	}
	defer out.Close()
	ferr, err := os.Create(errname)
	if err != nil {
		return nil, newerr(CantStart, errname, err.Error())
	}
	defer ferr.Close()
	command := exec.Command(P.Command, args...)
	command.Dir = dir
	command.Stdout = out
	command.Stderr = ferr
	if len(P.Env) > 0 {
		command.Env = append(os.Environ(), P.Env...)
	}
	if err := command.Start(); err != nil {
		return nil, newerr(CantStart, "", err.Error())
	}
	if err := command.Wait(); err != nil {
		e := newerr(Abnormal, errname, err.Error())
		e.detail = tail(errname, 4096) + tail(outname, 4096)
		return nil, e
	}
	if P.Marker != "" && searchBackwards(P.Marker, outname) == "" {
		e := newerr(Abnormal, outname, fmt.Sprintf("termination marker %q not found", P.Marker))
		e.detail = tail(errname, 4096) + tail(outname, 4096)
		return nil, e
	}
	valname := outname
	if P.Output != "" {
		valname = filepath.Join(dir, repl.Replace(P.Output))
	}
	fval, err := os.Open(valname)
	if err != nil {
		return nil, newerr(NoOutput, valname, err.Error())
	}
	defer fval.Close()
	parser := P.Parser
	if parser == nil {
		parser = PlainParser{}
	}
	vals, err := parser.Parse(fval, grid.Len())
	if err != nil {
		return nil, newerr(NoOutput, valname, err.Error())
	}
	return vals, nil
}

//writeGrid writes the grid definition in a simple keyword format.
func writeGrid(name string, grid GridSpec, kind FieldKind) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(f, "kind %s\norigin %.6f %.6f %.6f\nstep %.6f\nnodes %d %d %d\n", kind, grid.Origin[0], grid.Origin[1], grid.Origin[2], grid.Step, grid.Nodes[0], grid.Nodes[1], grid.Nodes[2])
	if err2 := f.Close(); err == nil {
		err = err2
	}
	return err
}

//searchBackwards looks for the last line of the file filename that contains str,
//reading the file from the end. It returns that line, or an empty string if
//no line contains str or the file can't be read.
func searchBackwards(str, filename string) string {
	f, err := os.Open(filename)
	if err != nil {
		return ""
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return ""
	}
	const chunk = 4096
	end := info.Size()
	var carry []byte //the beginning of a line that started in the previous chunk read.
	for end > 0 {
		start := end - chunk
		if start < 0 {
			start = 0
		}
		buf := make([]byte, end-start, int(end-start)+len(carry))
		if _, err := f.ReadAt(buf, start); err != nil && !errors.Is(err, io.EOF) {
			return ""
		}
		buf = append(buf, carry...)
		lines := strings.Split(string(buf), "\n")
		//the first piece could be incomplete, unless we are at the beginning of the file.
		first := 1
		if start == 0 {
			first = 0
		}
		for i := len(lines) - 1; i >= first; i-- {
			if strings.Contains(lines[i], str) {
				return lines[i]
			}
		}
		carry = []byte(lines[0])
		end = start
	}
	return ""
}

//tail returns at most the last n bytes of the file filename.
func tail(filename string, n int64) string {
	f, err := os.Open(filename)
	if err != nil {
		return ""
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return ""
	}
	off := info.Size() - n
	if off < 0 {
		off = 0
	}
	buf := make([]byte, info.Size()-off)
	if _, err := f.ReadAt(buf, off); err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return string(buf)
}
