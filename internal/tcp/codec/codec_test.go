package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

func roundTrip(t *testing.T, p Packet) Packet {
	t.Helper()
	frame, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode(%s): %v", p.Kind(), err)
	}
	if got := Kind(binary.LittleEndian.Uint32(frame[:TagSize])); got != p.Kind() {
		t.Fatalf("tag = %s, want %s", got, p.Kind())
	}
	decoded, err := Decode(p.Kind(), frame[TagSize:])
	if err != nil {
		t.Fatalf("Decode(%s): %v", p.Kind(), err)
	}
	return decoded
}

func fullHello() *Hello {
	h := &Hello{}
	h.Version = 2
	h.Build = 7
	h.ProtocolVersion = 1
	h.Threads = 64
	h.Vendor = 0x756e6547
	h.ProcInfo = 0x000306c3
	_ = h.SetAddress("1A2bCdEfGhJkLmNpQrStUvWxYz12345678")
	for i := range h.Entropy {
		h.Entropy[i] = 0xFF
	}
	return h
}

func TestRoundTrip(t *testing.T) {
	var maxCert [domain.CertificateWidth]byte
	for i := range maxCert {
		maxCert[i] = byte(i + 1)
	}
	var prev, merkle [32]byte
	for i := range prev {
		prev[i] = byte(i)
		merkle[i] = byte(255 - i)
	}

	tests := []struct {
		name   string
		packet Packet
	}{
		{"ack", &Ack{}},
		{"nop", &Nop{}},
		{"hello max entropy", fullHello()},
		{"hello zero", &Hello{}},
		{"hello ack", &HelloAck{Reserved: [HelloAckBodySize]byte{1, 2, 3}}},
		{"empty label", &ClientLabel{}},
		{"longest label", &ClientLabel{Label: strings.Repeat("l", LabelBodySize-1)}},
		{"message", &Message{Text: "pool maintenance at 12:00 UTC"}},
		{"longest message", &Message{Text: strings.Repeat("m", MessageBodySize-1)}},
		{"work", &Work{domain.WorkAssignment{
			Thread: 3, Version: -2, PrevBlockHash: prev, MerkleRoot: merkle, Time: 1400000000, Bits: 0x0a8d3a2f,
		}}},
		{"work max thread", &Work{domain.WorkAssignment{Thread: 0xFFFFFFFF, Time: 0xFFFFFFFF, Bits: 0xFFFFFFFF}}},
		{"submission widest certificate", &Submission{domain.SubmissionRecord{
			Nonce: 0xFFFEFFFF, Certificate: maxCert[:], Thread: 63,
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, tt.packet)
			if diff := cmp.Diff(tt.packet, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodedSizes(t *testing.T) {
	packets := []Packet{
		&Ack{}, &Nop{}, fullHello(), &HelloAck{}, &ClientLabel{Label: "rig"},
		&Message{Text: "hi"}, &Work{}, &Submission{},
	}
	for _, p := range packets {
		frame, err := Encode(p)
		if err != nil {
			t.Fatalf("Encode(%s): %v", p.Kind(), err)
		}
		size, _ := BodySize(p.Kind())
		if len(frame) != TagSize+size {
			t.Errorf("%s: frame is %d bytes, want %d", p.Kind(), len(frame), TagSize+size)
		}
		if len(frame) > MaxFrameSize {
			t.Errorf("%s: frame is %d bytes, exceeds %d", p.Kind(), len(frame), MaxFrameSize)
		}
	}

	if HelloBodySize != 314 {
		t.Errorf("HelloBodySize = %d, want 314", HelloBodySize)
	}
	if WorkBodySize != 80 {
		t.Errorf("WorkBodySize = %d, want 80", WorkBodySize)
	}
	if SubmissionSize != 12+64 {
		t.Errorf("SubmissionSize = %d, want 76", SubmissionSize)
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	kinds := []Kind{KindAck, KindNop, KindHello, KindHelloAck, KindClientLabel, KindMessage, KindWork, KindSubmission}
	for _, k := range kinds {
		size, _ := BodySize(k)

		_, err := Decode(k, make([]byte, size+1))
		if !errors.Is(err, ErrBodyLength) {
			t.Errorf("%s with %d bytes: err = %v, want ErrBodyLength", k, size+1, err)
		}

		if size == 0 {
			continue
		}
		_, err = Decode(k, make([]byte, size-1))
		if !errors.Is(err, ErrBodyLength) {
			t.Errorf("%s with %d bytes: err = %v, want ErrBodyLength", k, size-1, err)
		}
	}
}

func TestDecodeRejectsOversizedCertificate(t *testing.T) {
	body := make([]byte, SubmissionSize)
	binary.LittleEndian.PutUint32(body[0:4], 42)
	binary.LittleEndian.PutUint32(body[4:8], domain.MaxCertificateBytes+1)
	binary.LittleEndian.PutUint32(body[8:12], 0)

	_, err := Decode(KindSubmission, body)
	if !errors.Is(err, ErrCertificateTooLarge) {
		t.Fatalf("err = %v, want ErrCertificateTooLarge", err)
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("err is %T, want *DecodeError", err)
	}
	if decodeErr.Got != domain.MaxCertificateBytes+1 {
		t.Errorf("Got = %d, want %d", decodeErr.Got, domain.MaxCertificateBytes+1)
	}

	binary.LittleEndian.PutUint32(body[4:8], 0xFFFFFFFF)
	if _, err := Decode(KindSubmission, body); !errors.Is(err, ErrCertificateTooLarge) {
		t.Fatalf("huge declared length: err = %v, want ErrCertificateTooLarge", err)
	}
}

func TestEncodeRejectsOversizedCertificate(t *testing.T) {
	p := &Submission{domain.SubmissionRecord{Certificate: make([]byte, domain.CertificateWidth+1)}}
	if _, err := Encode(p); !errors.Is(err, ErrCertificateTooLarge) {
		t.Fatalf("err = %v, want ErrCertificateTooLarge", err)
	}
}

func TestSubmissionDeclaresFixedWidth(t *testing.T) {
	for _, cert := range [][]byte{nil, {0x2A, 0x01}} {
		frame, err := Encode(&Submission{domain.SubmissionRecord{Nonce: 7, Certificate: cert, Thread: 2}})
		if err != nil {
			t.Fatalf("Encode(%x): %v", cert, err)
		}
		body := frame[TagSize:]
		if got := binary.LittleEndian.Uint32(body[4:8]); got != domain.CertificateWidth {
			t.Errorf("cert %x: declared length = %d, want %d", cert, got, domain.CertificateWidth)
		}

		want := make([]byte, domain.MaxCertificateBytes)
		copy(want, cert)
		if !bytes.Equal(body[SubmissionHeader:], want) {
			t.Errorf("cert %x: certificate area = %x", cert, body[SubmissionHeader:])
		}

		p, err := Decode(KindSubmission, body)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got := p.(*Submission).Certificate; !bytes.Equal(got, want[:domain.CertificateWidth]) {
			t.Errorf("decoded certificate = %x", got)
		}
	}
}

func TestDecodeRejectsCertificateLengthOtherThanFixedWidth(t *testing.T) {
	for _, declared := range []uint32{0, 2, 5, domain.CertificateWidth - 1, domain.CertificateWidth + 1, domain.MaxCertificateBytes} {
		body := make([]byte, SubmissionSize)
		binary.LittleEndian.PutUint32(body[0:4], 42)
		binary.LittleEndian.PutUint32(body[4:8], declared)

		_, err := Decode(KindSubmission, body)
		if !errors.Is(err, ErrCertificateLength) {
			t.Errorf("declared %d: err = %v, want ErrCertificateLength", declared, err)
			continue
		}
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("declared %d: err is %T, want *DecodeError", declared, err)
		}
		if decodeErr.Want != domain.CertificateWidth || decodeErr.Got != int(declared) {
			t.Errorf("declared %d: want/got = %d/%d", declared, decodeErr.Want, decodeErr.Got)
		}
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := Decode(Kind('Z'), nil)
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
	if _, err := BodySize(Kind(0)); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("BodySize(0): err = %v, want ErrUnknownKind", err)
	}
}

func TestEncodeRejectsOverwideStrings(t *testing.T) {
	for _, p := range []Packet{
		&ClientLabel{Label: strings.Repeat("x", LabelBodySize)},
		&Message{Text: strings.Repeat("y", MessageBodySize)},
	} {
		if _, err := Encode(p); !errors.Is(err, ErrFieldTooLong) {
			t.Errorf("%s: err = %v, want ErrFieldTooLong", p.Kind(), err)
		}
	}
}

func TestStringFieldsAreTerminated(t *testing.T) {
	body := bytes.Repeat([]byte{'z'}, MessageBodySize)
	p, err := Decode(KindMessage, body)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if text := p.(*Message).Text; len(text) != MessageBodySize-1 {
		t.Errorf("unterminated message decoded to %d bytes, want %d", len(text), MessageBodySize-1)
	}

	body = make([]byte, LabelBodySize)
	copy(body, "rig-7\x00garbage")
	p, err = Decode(KindClientLabel, body)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if l := p.(*ClientLabel).Label; l != "rig-7" {
		t.Errorf("label = %q, want %q", l, "rig-7")
	}
}

func TestHelloAddressIsZeroPadded(t *testing.T) {
	h := &Hello{}
	if err := h.SetAddress("1A2b"); err != nil {
		t.Fatalf("SetAddress: %v", err)
	}
	frame, err := Encode(h)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	addr := frame[TagSize+24 : TagSize+24+domain.AddressSize]
	want := append([]byte("1A2b"), make([]byte, domain.AddressSize-4)...)
	if !bytes.Equal(addr, want) {
		t.Errorf("address field = %q, want %q", addr, want)
	}
	if err := h.SetAddress(strings.Repeat("1", domain.AddressSize+1)); err == nil {
		t.Error("expected error for oversized address")
	}
}

func TestReadPacket(t *testing.T) {
	var stream bytes.Buffer
	work := &Work{domain.WorkAssignment{Thread: 1, Time: 99, Bits: 5}}
	msg := &Message{Text: "hello miners"}
	for _, p := range []Packet{work, &HelloAck{}, msg} {
		if err := WritePacket(&stream, p); err != nil {
			t.Fatalf("WritePacket: %v", err)
		}
	}

	got, err := ReadPacket(&stream)
	if err != nil {
		t.Fatalf("ReadPacket work: %v", err)
	}
	if diff := cmp.Diff(work, got); diff != "" {
		t.Errorf("work mismatch (-want +got):\n%s", diff)
	}
	if got, err = ReadPacket(&stream); err != nil || got.Kind() != KindHelloAck {
		t.Fatalf("ReadPacket hello ack: %v, %v", got, err)
	}
	if got, err = ReadPacket(&stream); err != nil {
		t.Fatalf("ReadPacket message: %v", err)
	}
	if diff := cmp.Diff(msg, got); diff != "" {
		t.Errorf("message mismatch (-want +got):\n%s", diff)
	}
	if _, err = ReadPacket(&stream); err != io.EOF {
		t.Errorf("empty stream: err = %v, want io.EOF", err)
	}
}

func TestReadPacketShortBody(t *testing.T) {
	frame, _ := Encode(&Work{})
	_, err := ReadPacket(bytes.NewReader(frame[:len(frame)-1]))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReadPacketUnknownTag(t *testing.T) {
	frame := []byte{'Q', 0, 0, 0, 1, 2, 3}
	_, err := ReadPacket(bytes.NewReader(frame))
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
}
