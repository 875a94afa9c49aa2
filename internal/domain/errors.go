package domain

import "errors"

var (
	// ErrContent indicates the question source is missing, malformed, or
	// violates the Question invariants. Fatal at startup.
	ErrContent = errors.New("question content invalid or unavailable")
	// ErrInvalidState is returned when a session operation is called in a
	// state that forbids it. It signals a bug in the driving layer.
	ErrInvalidState = errors.New("operation not allowed in current session state")
	// ErrDeadlinePassed is returned when an answer arrives after the current
	// question's deadline. The caller should call Timeout instead.
	ErrDeadlinePassed = errors.New("answer submitted after the question deadline")
	// ErrStorage indicates the attempt store could not be written or read.
	// The completed session's in-memory summary stays valid regardless.
	ErrStorage = errors.New("attempt storage unavailable")
	// ErrNoQuestions is returned when no questions match the requested filters.
	ErrNoQuestions = errors.New("no questions match the requested filters")
)
