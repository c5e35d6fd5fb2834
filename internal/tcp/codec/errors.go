package codec

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind         = errors.New("unknown packet kind")
	ErrBodyLength          = errors.New("packet body length mismatch")
	ErrCertificateTooLarge = errors.New("declared certificate length exceeds maximum")
	ErrCertificateLength   = errors.New("declared certificate length is not the fixed width")
	ErrFieldTooLong        = errors.New("field exceeds fixed width")
	ErrShortBuffer         = errors.New("insufficient data in buffer")
)

// DecodeError reports why a packet of a given kind was rejected.
type DecodeError struct {
	Kind Kind
	Want int
	Got  int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Want != 0 || e.Got != 0 {
		return fmt.Sprintf("decode %s: %v (want %d, got %d)", e.Kind, e.Err, e.Want, e.Got)
	}
	return fmt.Sprintf("decode %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
