package dense

import "fmt"

//Error is the error type for the dense package. It satisfies qsar.Error.
type Error struct {
	message  string
	deco     []string
	critical bool
	err      error
}

//Error returns a string with an error message.
func (err *Error) Error() string {
	return fmt.Sprintf("goqsar/dense: %s", err.message)
}

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

//Unwrap returns the sentinel error the Error is based on, if any.
func (err *Error) Unwrap() error { return err.err }

func newError(sentinel error, caller string, format string, args ...interface{}) *Error {
	msg := sentinel.Error()
	if format != "" {
		msg = msg + ": " + fmt.Sprintf(format, args...)
	}
	return &Error{message: msg, deco: []string{caller}, critical: true, err: sentinel}
}

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrShape           = PanicMsg("goqsar/dense: dimension mismatch")
	ErrIndexOutOfRange = PanicMsg("goqsar/dense: index out of range")
	ErrNegativeSize    = PanicMsg("goqsar/dense: negative size")
	ErrSingular        = PanicMsg("goqsar/dense: matrix is singular")
	ErrAliased         = PanicMsg("goqsar/dense: destination aliases an operand")
	ErrNotSquare       = PanicMsg("goqsar/dense: expect square matrix")
)
