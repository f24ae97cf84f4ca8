package extern

import (
	"errors"
	"fmt"
)

//Kind classifies the failures of an external engine.
type Kind int

const (
	CantStart   Kind = iota + 1 //the process could not start
	Abnormal                    //non-zero exit or missing termination marker
	NoOutput                    //the output file is missing or can't be parsed
	UnknownAtom                 //the molecule has an atom type the engine doesn't know
	Unsupported                 //the engine can't compute the requested field kind
	Flaky                       //the known flaky failure persisted after all the retries
)

var kindMessages = map[Kind]string{
	CantStart:   "process could not start",
	Abnormal:    "process terminated abnormally",
	NoOutput:    "output file missing or unparseable",
	UnknownAtom: "unknown atom type encountered",
	Unsupported: "field kind not supported",
	Flaky:       "failure persisted after retries",
}

func (k Kind) String() string {
	if m, ok := kindMessages[k]; ok {
		return m
	}
	return fmt.Sprintf("failure %d", int(k))
}

//Error is the error returned by engines. It satisfies qsar.FileError.
type Error struct {
	kind     Kind
	program  string
	input    string //name of the molecule
	filename string //file with the program output, if any
	message  string
	detail   string //tail of the program output
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	s := fmt.Sprintf("%s for %s with %s", err.kind, err.input, err.program)
	if err.message != "" {
		s += ": " + err.message
	}
	if err.filename != "" {
		s += " (see " + err.filename + ")"
	}
	return s
}

//Kind returns the class of the failure.
func (err *Error) Kind() Kind { return err.kind }

//Code returns the kind as an integer, suitable for a pool.TaskRecord.
func (err *Error) Code() int { return int(err.kind) }

//Detail returns the tail of the program output, when available.
func (err *Error) Detail() string { return err.detail }

//FileName returns the file with the program output, if any.
func (err *Error) FileName() string { return err.filename }

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical return whether the error is critical or it can be ignored
func (err *Error) Critical() bool { return err.critical }

//Code returns the failure code for err: the Kind if err is an *Error,
//and Abnormal otherwise.
func Code(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return int(Abnormal)
}
