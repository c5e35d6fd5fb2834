// Package codec implements the fixed-layout binary packets exchanged with the pool.
//
// Every packet is a 4 byte little-endian kind tag followed by a body whose
// length is fully determined by the kind.
package codec

import (
	"fmt"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// Kind is the 4 byte tag that opens every packet.
type Kind uint32

const (
	KindAck         Kind = 'A'
	KindHello       Kind = 'H'
	KindHelloAck    Kind = 'h'
	KindClientLabel Kind = 'L'
	KindMessage     Kind = 'M'
	KindNop         Kind = 'N'
	KindSubmission  Kind = 'S'
	KindWork        Kind = 'W'
)

// Wire sizes.
const (
	TagSize          = 4
	MaxFrameSize     = 1024
	HelloBodySize    = 4 + 4 + 4 + 1 + 3 + 4 + 4 + domain.AddressSize + domain.EntropySize
	LabelBodySize    = 64
	WorkBodySize     = 4 + 4 + 32 + 32 + 4 + 4
	SubmissionHeader = 4 + 4 + 4
	SubmissionSize   = SubmissionHeader + domain.MaxCertificateBytes
	MessageBodySize  = 256
	HelloAckBodySize = 256
)

func (k Kind) String() string {
	switch k {
	case KindAck:
		return "Ack"
	case KindHello:
		return "Hello"
	case KindHelloAck:
		return "HelloAck"
	case KindClientLabel:
		return "ClientLabel"
	case KindMessage:
		return "Message"
	case KindNop:
		return "Nop"
	case KindSubmission:
		return "Submission"
	case KindWork:
		return "Work"
	default:
		return fmt.Sprintf("Kind(0x%08x)", uint32(k))
	}
}

// BodySize returns the exact body length for k.
func BodySize(k Kind) (int, error) {
	switch k {
	case KindAck, KindNop:
		return 0, nil
	case KindHello:
		return HelloBodySize, nil
	case KindHelloAck:
		return HelloAckBodySize, nil
	case KindClientLabel:
		return LabelBodySize, nil
	case KindMessage:
		return MessageBodySize, nil
	case KindSubmission:
		return SubmissionSize, nil
	case KindWork:
		return WorkBodySize, nil
	default:
		return 0, &DecodeError{Kind: k, Err: ErrUnknownKind}
	}
}

// Packet is the closed set of wire messages. Only types in this package
// implement it.
type Packet interface {
	Kind() Kind
	encodeBody(w *writer) error
}

type (
	// Ack is a bare acknowledgement
	Ack struct{}

	// Nop is a keep-alive
	Nop struct{}

	// Hello is sent once right after connecting
	Hello struct {
		domain.HelloPayload
	}

	// HelloAck answers Hello. Its reserved block carries nothing this client reads.
	HelloAck struct {
		Reserved [HelloAckBodySize]byte
	}

	// ClientLabel names the worker on the pool's stats page
	ClientLabel struct {
		Label string
	}

	// Message is operator text from the pool
	Message struct {
		Text string
	}

	// Work carries a header template for one thread
	Work struct {
		domain.WorkAssignment
	}

	// Submission reports a found chain
	Submission struct {
		domain.SubmissionRecord
	}
)

func (*Ack) Kind() Kind         { return KindAck }
func (*Nop) Kind() Kind         { return KindNop }
func (*Hello) Kind() Kind       { return KindHello }
func (*HelloAck) Kind() Kind    { return KindHelloAck }
func (*ClientLabel) Kind() Kind { return KindClientLabel }
func (*Message) Kind() Kind     { return KindMessage }
func (*Work) Kind() Kind        { return KindWork }
func (*Submission) Kind() Kind  { return KindSubmission }
