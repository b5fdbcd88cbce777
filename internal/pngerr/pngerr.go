// Package pngerr defines the error taxonomy shared by the codec packages.
//
// Every error aborts the current decode or encode session. Callers compare
// against the sentinels with errors.Is and use Class to group them.
package pngerr

import (
	"errors"
	"fmt"
)

// Structural errors.
var (
	ErrMissingSignature = errors.New("png: missing signature")
	ErrCorruptedChunk   = errors.New("png: corrupted chunk")
	ErrInvalidName      = errors.New("png: invalid chunk name")
)

// Ordering errors. A *ChunkError matches exactly one of these.
var (
	ErrPrematureIEND  = errors.New("png: chunk after IEND")
	ErrIllegalChunk   = errors.New("png: illegal chunk")
	ErrMisplacedChunk = errors.New("png: misplaced chunk")
	ErrDuplicateChunk = errors.New("png: duplicate chunk")
	ErrMissingChunk   = errors.New("png: missing chunk")
)

// Semantic and encode errors.
var (
	ErrSyntax         = errors.New("png: syntax error")
	ErrMissingPalette = errors.New("png: missing palette")
	ErrBufferCount    = errors.New("png: scanline length mismatch")
)

// Kind identifies the ordering violation carried by a ChunkError.
type Kind int

const (
	Premature Kind = iota
	Illegal
	Misplaced
	Duplicate
	Missing
)

func (k Kind) sentinel() error {
	switch k {
	case Premature:
		return ErrPrematureIEND
	case Illegal:
		return ErrIllegalChunk
	case Misplaced:
		return ErrMisplacedChunk
	case Duplicate:
		return ErrDuplicateChunk
	default:
		return ErrMissingChunk
	}
}

// ChunkError reports an ordering violation together with the chunk type
// that caused it.
type ChunkError struct {
	Kind  Kind
	Chunk string
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("%v (%s)", e.Kind.sentinel(), e.Chunk)
}

func (e *ChunkError) Is(target error) bool { return target == e.Kind.sentinel() }

// SyntaxError reports a malformed field value.
type SyntaxError struct {
	Field string
	Value any
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("png: syntax error: %s has invalid value %v", e.Field, e.Value)
	}
	return fmt.Sprintf("png: syntax error: %s = %v: %s", e.Field, e.Value, e.Msg)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// Syntax is shorthand for constructing a *SyntaxError.
func Syntax(field string, value any, format string, args ...any) error {
	return &SyntaxError{Field: field, Value: value, Msg: fmt.Sprintf(format, args...)}
}

// EncodeError reports a scanline generator that produced a row of the
// wrong length. It signals a caller contract violation.
type EncodeError struct {
	Want, Got int
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%v: got %d bytes, want %d", ErrBufferCount, e.Got, e.Want)
}

func (e *EncodeError) Is(target error) bool { return target == ErrBufferCount }

// Category groups errors for reporting.
type Category int

const (
	Unknown Category = iota
	Structural
	Semantic
	Ordering
	Encode
)

func (c Category) String() string {
	switch c {
	case Structural:
		return "structural"
	case Semantic:
		return "semantic"
	case Ordering:
		return "ordering"
	case Encode:
		return "encode"
	default:
		return "unknown"
	}
}

// Class returns the taxonomy category of err.
func Class(err error) Category {
	switch {
	case err == nil:
		return Unknown
	case errors.Is(err, ErrMissingSignature), errors.Is(err, ErrCorruptedChunk), errors.Is(err, ErrInvalidName):
		return Structural
	case errors.Is(err, ErrPrematureIEND), errors.Is(err, ErrIllegalChunk), errors.Is(err, ErrMisplacedChunk),
		errors.Is(err, ErrDuplicateChunk), errors.Is(err, ErrMissingChunk):
		return Ordering
	case errors.Is(err, ErrSyntax), errors.Is(err, ErrMissingPalette):
		return Semantic
	case errors.Is(err, ErrBufferCount):
		return Encode
	default:
		return Unknown
	}
}
