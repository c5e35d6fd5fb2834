package primary

import "context"

// TokenVerifier validates bearer tokens presented to the status API.
type TokenVerifier interface {
	VerifyTokenHMAC(ctx context.Context, token string) (bool, error)
}
