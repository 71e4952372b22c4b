package crypto

import "fmt"

// ImportError reports a key-pair import whose supplied public key or address
// disagrees with what the private key derives. The mismatch is never silently
// corrected.
type ImportError struct {
	Scheme SchemeID
	Reason string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s key pair: %s", e.Scheme, e.Reason)
}

// SigningError reports a scheme-level signing failure, e.g. malformed key
// material.
type SigningError struct {
	Scheme SchemeID
	Reason string
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("sign with %s key pair: %s", e.Scheme, e.Reason)
}
