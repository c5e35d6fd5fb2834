package codec

import (
	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// Encode produces the kind tag followed by the fixed-layout body.
func Encode(p Packet) ([]byte, error) {
	size, err := BodySize(p.Kind())
	if err != nil {
		return nil, err
	}
	w := newWriter(TagSize + size)
	w.uint32(uint32(p.Kind()))
	if err := p.encodeBody(w); err != nil {
		return nil, err
	}
	out := w.bytesOut()
	if len(out) != TagSize+size || len(out) > MaxFrameSize {
		// encodeBody and BodySize disagree
		panic("codec: encoded " + p.Kind().String() + " has wrong size")
	}
	return out, nil
}

// Decode interprets body as a packet of kind k. The body must be exactly the
// size the kind prescribes.
func Decode(k Kind, body []byte) (Packet, error) {
	want, err := BodySize(k)
	if err != nil {
		return nil, err
	}
	if len(body) != want {
		return nil, &DecodeError{Kind: k, Want: want, Got: len(body), Err: ErrBodyLength}
	}

	r := newReader(body)
	var p Packet
	switch k {
	case KindAck:
		p = &Ack{}
	case KindNop:
		p = &Nop{}
	case KindHello:
		p, err = decodeHello(r)
	case KindHelloAck:
		p, err = decodeHelloAck(r)
	case KindClientLabel:
		p, err = decodeClientLabel(r)
	case KindMessage:
		p, err = decodeMessage(r)
	case KindWork:
		p, err = decodeWork(r)
	case KindSubmission:
		p, err = decodeSubmission(r)
	default:
		return nil, &DecodeError{Kind: k, Err: ErrUnknownKind}
	}
	if err != nil {
		if _, ok := err.(*DecodeError); ok {
			return nil, err
		}
		return nil, &DecodeError{Kind: k, Err: err}
	}
	if r.remaining() != 0 {
		return nil, &DecodeError{Kind: k, Want: want, Got: want - r.remaining(), Err: ErrBodyLength}
	}
	return p, nil
}

func (*Ack) encodeBody(*writer) error { return nil }

func (*Nop) encodeBody(*writer) error { return nil }

func (h *Hello) encodeBody(w *writer) error {
	w.uint32(h.Version)
	w.uint32(h.Build)
	w.uint32(h.ProtocolVersion)
	w.uint8(h.Threads)
	w.zeros(3)
	w.uint32(h.Vendor)
	w.uint32(h.ProcInfo)
	w.bytes(h.Address[:])
	w.bytes(h.Entropy[:])
	return nil
}

func decodeHello(r *reader) (*Hello, error) {
	h := &Hello{}
	var err error
	if h.Version, err = r.uint32(); err != nil {
		return nil, err
	}
	if h.Build, err = r.uint32(); err != nil {
		return nil, err
	}
	if h.ProtocolVersion, err = r.uint32(); err != nil {
		return nil, err
	}
	if h.Threads, err = r.uint8(); err != nil {
		return nil, err
	}
	if err = r.skip(3); err != nil {
		return nil, err
	}
	if h.Vendor, err = r.uint32(); err != nil {
		return nil, err
	}
	if h.ProcInfo, err = r.uint32(); err != nil {
		return nil, err
	}
	if err = r.fixed(h.Address[:]); err != nil {
		return nil, err
	}
	if err = r.fixed(h.Entropy[:]); err != nil {
		return nil, err
	}
	return h, nil
}

func (a *HelloAck) encodeBody(w *writer) error {
	w.bytes(a.Reserved[:])
	return nil
}

func decodeHelloAck(r *reader) (*HelloAck, error) {
	a := &HelloAck{}
	if err := r.fixed(a.Reserved[:]); err != nil {
		return nil, err
	}
	return a, nil
}

func (l *ClientLabel) encodeBody(w *writer) error {
	return w.cstring(l.Label, LabelBodySize)
}

func decodeClientLabel(r *reader) (*ClientLabel, error) {
	s, err := r.cstring(LabelBodySize)
	if err != nil {
		return nil, err
	}
	return &ClientLabel{Label: s}, nil
}

func (m *Message) encodeBody(w *writer) error {
	return w.cstring(m.Text, MessageBodySize)
}

func decodeMessage(r *reader) (*Message, error) {
	s, err := r.cstring(MessageBodySize)
	if err != nil {
		return nil, err
	}
	return &Message{Text: s}, nil
}

func (wk *Work) encodeBody(w *writer) error {
	w.uint32(wk.Thread)
	w.uint32(uint32(wk.Version))
	w.bytes(wk.PrevBlockHash[:])
	w.bytes(wk.MerkleRoot[:])
	w.uint32(wk.Time)
	w.uint32(wk.Bits)
	return nil
}

func decodeWork(r *reader) (*Work, error) {
	wk := &Work{}
	var err error
	if wk.Thread, err = r.uint32(); err != nil {
		return nil, err
	}
	version, err := r.uint32()
	if err != nil {
		return nil, err
	}
	wk.Version = int32(version)
	if err = r.fixed(wk.PrevBlockHash[:]); err != nil {
		return nil, err
	}
	if err = r.fixed(wk.MerkleRoot[:]); err != nil {
		return nil, err
	}
	if wk.Time, err = r.uint32(); err != nil {
		return nil, err
	}
	if wk.Bits, err = r.uint32(); err != nil {
		return nil, err
	}
	return wk, nil
}

// encodeBody writes the certificate as a fixed-width little-endian number
// followed by zero fill up to the certificate area.
func (s *Submission) encodeBody(w *writer) error {
	if len(s.Certificate) > domain.CertificateWidth {
		return &DecodeError{Kind: KindSubmission, Want: domain.CertificateWidth, Got: len(s.Certificate), Err: ErrCertificateTooLarge}
	}
	w.uint32(s.Nonce)
	w.uint32(domain.CertificateWidth)
	w.uint32(s.Thread)
	w.bytes(s.Certificate)
	w.zeros(domain.MaxCertificateBytes - len(s.Certificate))
	return nil
}

func decodeSubmission(r *reader) (*Submission, error) {
	s := &Submission{}
	var err error
	if s.Nonce, err = r.uint32(); err != nil {
		return nil, err
	}
	certLen, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if s.Thread, err = r.uint32(); err != nil {
		return nil, err
	}
	if certLen > domain.MaxCertificateBytes {
		return nil, &DecodeError{Kind: KindSubmission, Want: domain.MaxCertificateBytes, Got: int(certLen), Err: ErrCertificateTooLarge}
	}
	if certLen != domain.CertificateWidth {
		return nil, &DecodeError{Kind: KindSubmission, Want: domain.CertificateWidth, Got: int(certLen), Err: ErrCertificateLength}
	}
	s.Certificate = make([]byte, certLen)
	if err = r.fixed(s.Certificate); err != nil {
		return nil, err
	}
	if err = r.skip(domain.MaxCertificateBytes - int(certLen)); err != nil {
		return nil, err
	}
	return s, nil
}
