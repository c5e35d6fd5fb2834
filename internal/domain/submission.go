package domain

const (
	// MaxCertificateBytes is the size of the certificate area of a submission.
	MaxCertificateBytes = 64
	// CertificateWidth is the declared length of every certificate: the
	// multiplier as 32 little-endian bytes.
	CertificateWidth = 32
)

// SubmissionRecord reports a found chain back to the pool.
type SubmissionRecord struct {
	Nonce       uint32
	Certificate []byte
	Thread      uint32
}

// NewSubmission builds a submission from the current state of a thread.
func NewSubmission(ws *WorkState) SubmissionRecord {
	cert := make([]byte, len(ws.Multiplier))
	copy(cert, ws.Multiplier)
	return SubmissionRecord{
		Nonce:       ws.Header.Nonce,
		Certificate: cert,
		Thread:      ws.Thread,
	}
}
