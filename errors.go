// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"errors"
	"fmt"
	"log"
)

var (
	// ErrUnknownVariable is returned when a variable name is not in the
	// catalog.
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrUnknownRole is returned when parsing an invalid role name.
	ErrUnknownRole = errors.New("unknown role")
	// ErrDomain is recorded when a variable is declared with a single state.
	ErrDomain = errors.New("domain needs at least two states")
	// ErrUtilityCount is returned when solving a decision network that does
	// not have exactly one utility variable.
	ErrUtilityCount = errors.New("decision network needs exactly one utility variable")
	// ErrDecisionOrder is returned when the decision variables cannot be
	// sorted in a single sequence (cycle or unrelated decisions).
	ErrDecisionOrder = errors.New("decision variables are not totally ordered")
	// ErrFactorTooLarge is recorded when an operation would build a factor
	// above the MaxFactorSize limit.
	ErrFactorTooLarge = errors.New("factor too large")
)

// errstate stores the accumulated error of a structure. Following the
// convention used for BDD, an error does not stop a computation; it is kept
// until the caller checks Errored.
type errstate struct {
	error error
}

// Error returns the error status of the structure, or the empty string.
func (e *errstate) Error() string {
	if e.error == nil {
		return ""
	}
	return e.error.Error()
}

// Errored returns true if there was an error during a computation.
func (e *errstate) Errored() bool {
	return e.error != nil
}

// Err returns the accumulated error, or nil. The result wraps every sentinel
// error that was recorded, so it can be tested with errors.Is.
func (e *errstate) Err() error {
	return e.error
}

func (e *errstate) seterror(err error, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if e.error != nil {
		e.error = fmt.Errorf("%s: %w; %w", msg, err, e.error)
		return
	}
	e.error = fmt.Errorf("%s: %w", msg, err)
	if _DEBUG {
		log.Println(e.error)
	}
}
