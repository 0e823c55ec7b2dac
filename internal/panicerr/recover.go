// Package panicerr bridges the panic-based fatal-error idiom used by the
// Jack compilation engine's recursive-descent grammar back into a plain
// returned error at its public entry point. The Jack tokenizer and the
// Hack assembly parser are not recursive-descent over a grammar with this
// depth of call nesting and report errors as plain returns instead; this
// package exists for the one place that idiom doesn't scale.
//
// Unlike a goroutine-isolating panic recoverer, Recover runs f in the
// calling goroutine: this toolchain is single-threaded and synchronous by
// design (no cancellation surface, no background work), so there is
// nothing to isolate — only a translation from panic to error is needed.
package panicerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Recover calls f and converts any panic raised inside it into a returned
// error. Panics carrying an error value return that error wrapped with the
// message "fatal"; panics carrying anything else are formatted as
// "fatal: <value>" with a stack trace attached.
func Recover(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fromPanic(r)
		}
	}()
	f()
	return nil
}

// RecoverErr is like Recover but for functions that already return an
// error on the non-panic path.
func RecoverErr(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fromPanic(r)
		}
	}()
	return f()
}

func fromPanic(r interface{}) error {
	if e, ok := r.(error); ok {
		return errors.WithMessage(e, "fatal")
	}
	return errors.WithStack(fmt.Errorf("fatal: %v", r))
}
