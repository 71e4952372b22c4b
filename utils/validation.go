package utils

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/KonnerEL/pact/crypto"
)

// ValidateJSON validates that a string is valid JSON.
func ValidateJSON(data string) error {
	var js json.RawMessage
	return json.Unmarshal([]byte(data), &js)
}

// ValidateHex checks that a string is non-empty lowercase-insensitive base-16.
func ValidateHex(s string) error {
	if s == "" {
		return fmt.Errorf("hex value cannot be empty")
	}
	if _, err := hex.DecodeString(s); err != nil {
		return fmt.Errorf("invalid hex value: %w", err)
	}
	return nil
}

// ValidateHash checks that a string is a well-formed hex content hash.
func ValidateHash(s string) error {
	if _, err := crypto.ParseHash(s); err != nil {
		return err
	}
	return nil
}

// ValidatePublicKey checks hex encoding and the expected key length for the
// given scheme.
func ValidatePublicKey(scheme crypto.SchemeID, pubKey string) error {
	raw, err := hex.DecodeString(pubKey)
	if err != nil {
		return fmt.Errorf("invalid public key hex: %w", err)
	}
	if _, err := crypto.CanonicalAddress(scheme, raw); err != nil {
		return err
	}
	return nil
}
