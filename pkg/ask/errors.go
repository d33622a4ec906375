package ask

import (
	"errors"
)

var (
	ErrCancelled = errors.New("question cancelled")
	ErrTimedOut  = errors.New("question timed out")
	ErrBusy      = errors.New("another question is still open")
	ErrUIFault   = errors.New("ui fault")

	ErrLoopClosed = errors.New("ui loop closed")
)

type UIFaultError struct {
	Err error
}

func (e *UIFaultError) Error() string {
	return "ui fault: " + e.Err.Error()
}

func (e *UIFaultError) Unwrap() error {
	return e.Err
}

func (e *UIFaultError) Is(target error) bool {
	return target == ErrUIFault
}
