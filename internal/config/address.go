package config

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

var (
	ErrAddressRequired = errors.New("payment address is required")
	ErrAddressTooLong  = errors.New("payment address is too long")
	ErrInvalidAddress  = errors.New("invalid payment address")
)

// hash160 payload between the version byte and the checksum
const addressHashSize = 20

// ValidateAddress checks that addr is a base58check address that fits the
// Hello address field.
func ValidateAddress(addr string) error {
	if addr == "" {
		return ErrAddressRequired
	}
	if len(addr) > domain.AddressSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrAddressTooLong, len(addr), domain.AddressSize)
	}

	hash, _, err := base58.CheckDecode(addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(hash) != addressHashSize {
		return fmt.Errorf("%w: decoded hash is %d bytes, want %d", ErrInvalidAddress, len(hash), addressHashSize)
	}
	return nil
}
