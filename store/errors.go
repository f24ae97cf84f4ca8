package store

import (
	"errors"
	"fmt"
)

var (
	ErrShortWrite = errors.New("goqsar/store: short write")
	ErrShortRead  = errors.New("goqsar/store: short read")
	ErrFormat     = errors.New("goqsar/store: malformed file")
	ErrBlockOrder = errors.New("goqsar/store: block out of order")
	ErrNoBlock    = errors.New("goqsar/store: no such block")
)

//Error is the error type for the store package. It satisfies qsar.FileError.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
	err      error
}

func (err *Error) Error() string {
	return fmt.Sprintf("goqsar/store: %s: %s", err.filename, err.message)
}

//FileName returns the name of the file that couldn't be written or read.
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

func (err *Error) Unwrap() error { return err.err }

//wrap returns an *Error for the file filename, based on err.
func wrap(err error, filename, caller string) *Error {
	return &Error{message: err.Error(), filename: filename, deco: []string{caller}, critical: true, err: err}
}
