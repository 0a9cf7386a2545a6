package bpe

import (
	"errors"
	"fmt"
)

// DecodeErrorText is returned by Decode when the reconstructed bytes are
// not valid UTF-8.
const DecodeErrorText = "[DECODE ERROR]"

var (
	ErrUnknownTokenID      = errors.New("bpe: unknown token id")
	ErrInvalidByteSequence = errors.New("bpe: invalid utf-8 byte sequence")
)

// DiagnosticKind classifies a non-fatal decode problem.
type DiagnosticKind int

const (
	UnknownTokenID DiagnosticKind = iota + 1
	InvalidByteSequence
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnknownTokenID:
		return "unknown_token_id"
	case InvalidByteSequence:
		return "invalid_byte_sequence"
	default:
		return "unknown"
	}
}

// Diagnostic reports a problem found while decoding. Decoding always
// continues past it. Index is the position of the offending id in the
// input, or -1 when the problem concerns the whole output.
type Diagnostic struct {
	Kind  DiagnosticKind
	Index int
	ID    int
}

func (d Diagnostic) Error() string {
	switch d.Kind {
	case UnknownTokenID:
		return fmt.Sprintf("token id %d at position %d not found in merge table", d.ID, d.Index)
	case InvalidByteSequence:
		return "decoded bytes are not valid utf-8"
	default:
		return "decode diagnostic"
	}
}

func (d Diagnostic) Unwrap() error {
	switch d.Kind {
	case UnknownTokenID:
		return ErrUnknownTokenID
	case InvalidByteSequence:
		return ErrInvalidByteSequence
	default:
		return nil
	}
}

// Diagnostics is the list of problems reported by one decode call.
type Diagnostics []Diagnostic

// Err joins the diagnostics into a single error, or nil when empty.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errors.Join(errs...)
}
