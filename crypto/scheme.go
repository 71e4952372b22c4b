// Package crypto provides the signature scheme abstraction for the pact
// command envelope: a closed set of elliptic-curve schemes, each with key-pair
// import, public-key formatting, canonical address derivation, signing and
// verification, plus the Blake2b content hash commands are bound to.
package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SchemeID names a supported signature scheme.
type SchemeID string

const (
	// ED25519 signs with Ed25519; the canonical address is the hex public key.
	ED25519 SchemeID = "ED25519"

	// ETH signs with secp256k1; the canonical address is the lowercase hex of
	// the last 20 bytes of Keccak256 over the 64-byte public key.
	ETH SchemeID = "ETH"
)

// DefaultScheme is the scheme assumed when a serialized signature omits one.
func DefaultScheme() SchemeID {
	return ED25519
}

// Schemes returns the closed set of supported schemes.
func Schemes() []SchemeID {
	return []SchemeID{ED25519, ETH}
}

// Valid reports whether s names a supported scheme.
func (s SchemeID) Valid() bool {
	return s == ED25519 || s == ETH
}

func (s SchemeID) String() string {
	return string(s)
}

// ParseScheme resolves a scheme name; the empty string resolves to the
// default scheme.
func ParseScheme(name string) (SchemeID, error) {
	switch SchemeID(strings.ToUpper(name)) {
	case "":
		return DefaultScheme(), nil
	case ED25519:
		return ED25519, nil
	case ETH:
		return ETH, nil
	default:
		return "", fmt.Errorf("unsupported scheme: %q", name)
	}
}

// KeyPair holds the key material for one signer under one scheme. The private
// key is never exposed; it is consulted only inside Sign and can be wiped with
// Destroy once the pair is no longer needed.
type KeyPair struct {
	scheme  SchemeID
	public  []byte
	private []byte
	address string
}

// GenKeyPair generates a fresh key pair for the given scheme.
func GenKeyPair(scheme SchemeID) (*KeyPair, error) {
	switch scheme {
	case ED25519:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, &SigningError{Scheme: scheme, Reason: err.Error()}
		}
		return ImportKeyPair(scheme, priv.Seed(), nil, "")
	case ETH:
		key, err := ethcrypto.GenerateKey()
		if err != nil {
			return nil, &SigningError{Scheme: scheme, Reason: err.Error()}
		}
		return ImportKeyPair(scheme, ethcrypto.FromECDSA(key), nil, "")
	default:
		return nil, &ImportError{Scheme: scheme, Reason: "unsupported scheme"}
	}
}

// ImportKeyPair builds a KeyPair from raw private key material. A supplied
// public key or address that disagrees with what the private key derives is an
// ImportError, never silently corrected. Nil public key and empty address are
// derived.
func ImportKeyPair(scheme SchemeID, private, public []byte, address string) (*KeyPair, error) {
	if !scheme.Valid() {
		return nil, &ImportError{Scheme: scheme, Reason: "unsupported scheme"}
	}

	derived, err := derivePublicKey(scheme, private)
	if err != nil {
		return nil, &ImportError{Scheme: scheme, Reason: err.Error()}
	}
	if public != nil && !bytes.Equal(public, derived) {
		return nil, &ImportError{
			Scheme: scheme,
			Reason: fmt.Sprintf("supplied public key %s does not match derived %s",
				hex.EncodeToString(public), hex.EncodeToString(derived)),
		}
	}

	canonical, err := CanonicalAddress(scheme, derived)
	if err != nil {
		return nil, &ImportError{Scheme: scheme, Reason: err.Error()}
	}
	if address != "" && address != canonical {
		return nil, &ImportError{
			Scheme: scheme,
			Reason: fmt.Sprintf("supplied address %s does not match canonical %s", address, canonical),
		}
	}

	// ED25519 private keys are stored in seed form so a 32- or 64-byte
	// import behaves identically at signing time.
	if scheme == ED25519 && len(private) == ed25519.PrivateKeySize {
		private = ed25519.PrivateKey(private).Seed()
	}
	priv := make([]byte, len(private))
	copy(priv, private)

	return &KeyPair{
		scheme:  scheme,
		public:  derived,
		private: priv,
		address: canonical,
	}, nil
}

// Scheme returns the key pair's scheme.
func (kp *KeyPair) Scheme() SchemeID {
	return kp.scheme
}

// PublicKey returns the scheme-formatted public key bytes.
func (kp *KeyPair) PublicKey() []byte {
	pub := make([]byte, len(kp.public))
	copy(pub, kp.public)
	return pub
}

// PublicKeyHex returns the hex-encoded public key.
func (kp *KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(kp.public)
}

// Address returns the canonical address derived from the public key.
func (kp *KeyPair) Address() string {
	return kp.address
}

// Sign signs a message digest with the private key. For ETH the message must
// be a 32-byte digest.
func (kp *KeyPair) Sign(message []byte) ([]byte, error) {
	if len(kp.private) == 0 {
		return nil, &SigningError{Scheme: kp.scheme, Reason: "key pair destroyed"}
	}
	switch kp.scheme {
	case ED25519:
		priv := ed25519.NewKeyFromSeed(kp.private)
		sig := ed25519.Sign(priv, message)
		for i := range priv {
			priv[i] = 0
		}
		return sig, nil
	case ETH:
		key, err := ethcrypto.ToECDSA(kp.private)
		if err != nil {
			return nil, &SigningError{Scheme: kp.scheme, Reason: err.Error()}
		}
		sig, err := ethcrypto.Sign(message, key)
		key.D.SetInt64(0)
		if err != nil {
			return nil, &SigningError{Scheme: kp.scheme, Reason: err.Error()}
		}
		return sig, nil
	default:
		return nil, &SigningError{Scheme: kp.scheme, Reason: "unsupported scheme"}
	}
}

// Destroy wipes the private key material. The pair can no longer sign.
func (kp *KeyPair) Destroy() {
	for i := range kp.private {
		kp.private[i] = 0
	}
	kp.private = nil
}

// CanonicalAddress derives the scheme's address encoding for a public key.
func CanonicalAddress(scheme SchemeID, public []byte) (string, error) {
	switch scheme {
	case ED25519:
		if len(public) != ed25519.PublicKeySize {
			return "", fmt.Errorf("ED25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(public))
		}
		return hex.EncodeToString(public), nil
	case ETH:
		if len(public) != 64 {
			return "", fmt.Errorf("ETH public key must be 64 bytes, got %d", len(public))
		}
		digest := ethcrypto.Keccak256(public)
		return hex.EncodeToString(digest[12:]), nil
	default:
		return "", fmt.Errorf("unsupported scheme: %q", scheme)
	}
}

// Verify reports whether sig is a valid signature over message by the holder
// of the given public key under the given scheme. Malformed inputs verify as
// false.
func Verify(scheme SchemeID, message, public, sig []byte) bool {
	switch scheme {
	case ED25519:
		if len(public) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(public), message, sig)
	case ETH:
		if len(public) != 64 || len(sig) < 64 {
			return false
		}
		// VerifySignature wants the 65-byte uncompressed form and r||s only.
		uncompressed := append([]byte{0x04}, public...)
		return ethcrypto.VerifySignature(uncompressed, message, sig[:64])
	default:
		return false
	}
}

func derivePublicKey(scheme SchemeID, private []byte) ([]byte, error) {
	switch scheme {
	case ED25519:
		switch len(private) {
		case ed25519.SeedSize:
			priv := ed25519.NewKeyFromSeed(private)
			return []byte(priv.Public().(ed25519.PublicKey)), nil
		case ed25519.PrivateKeySize:
			priv := ed25519.PrivateKey(private)
			return []byte(priv.Public().(ed25519.PublicKey)), nil
		default:
			return nil, fmt.Errorf("ED25519 private key must be %d or %d bytes, got %d",
				ed25519.SeedSize, ed25519.PrivateKeySize, len(private))
		}
	case ETH:
		key, err := ethcrypto.ToECDSA(private)
		if err != nil {
			return nil, err
		}
		return ethcrypto.FromECDSAPub(&key.PublicKey)[1:], nil
	default:
		return nil, fmt.Errorf("unsupported scheme: %q", scheme)
	}
}
