package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

var (
	ed25519Seed = mustHex("9d68cc4fcea62075a2c83b35b8a3fdbb0b1bfb8d6e763e05be0321b1ee3379b7")
	ethPriv     = mustHex("4646464646464646464646464646464646464646464646464646464646464646")
)

func mustHex(s string) []byte {
	raw, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return raw
}

func testKeyMaterial(t *testing.T, scheme SchemeID) []byte {
	t.Helper()
	switch scheme {
	case ED25519:
		return ed25519Seed
	case ETH:
		return ethPriv
	default:
		t.Fatalf("no key material for scheme %s", scheme)
		return nil
	}
}

func TestImportRoundTrip(t *testing.T) {
	for _, scheme := range Schemes() {
		t.Run(scheme.String(), func(t *testing.T) {
			priv := testKeyMaterial(t, scheme)

			derived, err := ImportKeyPair(scheme, priv, nil, "")
			if err != nil {
				t.Fatalf("derive import: %v", err)
			}

			explicit, err := ImportKeyPair(scheme, priv, derived.PublicKey(), derived.Address())
			if err != nil {
				t.Fatalf("explicit import: %v", err)
			}

			if explicit.Scheme() != scheme {
				t.Errorf("scheme = %s, want %s", explicit.Scheme(), scheme)
			}
			if !bytes.Equal(explicit.PublicKey(), derived.PublicKey()) {
				t.Errorf("public key changed across round trip")
			}
			if explicit.Address() != derived.Address() {
				t.Errorf("address = %s, want %s", explicit.Address(), derived.Address())
			}

			canonical, err := CanonicalAddress(scheme, derived.PublicKey())
			if err != nil {
				t.Fatalf("canonical address: %v", err)
			}
			if derived.Address() != canonical {
				t.Errorf("address %s is not canonical %s", derived.Address(), canonical)
			}
		})
	}
}

func TestImportAddressMismatch(t *testing.T) {
	for _, scheme := range Schemes() {
		t.Run(scheme.String(), func(t *testing.T) {
			priv := testKeyMaterial(t, scheme)

			_, err := ImportKeyPair(scheme, priv, nil, "deadbeef")
			var importErr *ImportError
			if !errors.As(err, &importErr) {
				t.Fatalf("expected ImportError, got %v", err)
			}
		})
	}
}

func TestImportPublicKeyMismatch(t *testing.T) {
	for _, scheme := range Schemes() {
		t.Run(scheme.String(), func(t *testing.T) {
			priv := testKeyMaterial(t, scheme)

			other, err := GenKeyPair(scheme)
			if err != nil {
				t.Fatalf("gen key pair: %v", err)
			}

			_, err = ImportKeyPair(scheme, priv, other.PublicKey(), "")
			var importErr *ImportError
			if !errors.As(err, &importErr) {
				t.Fatalf("expected ImportError, got %v", err)
			}
		})
	}
}

func TestImportUnsupportedScheme(t *testing.T) {
	_, err := ImportKeyPair(SchemeID("SM2"), ed25519Seed, nil, "")
	var importErr *ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("expected ImportError, got %v", err)
	}
}

func TestSignVerify(t *testing.T) {
	message := HashOf([]byte("(transfer \"alice\" \"bob\" 10.0)"))

	for _, scheme := range Schemes() {
		t.Run(scheme.String(), func(t *testing.T) {
			kp, err := ImportKeyPair(scheme, testKeyMaterial(t, scheme), nil, "")
			if err != nil {
				t.Fatalf("import: %v", err)
			}

			sig, err := kp.Sign(message)
			if err != nil {
				t.Fatalf("sign: %v", err)
			}

			if !Verify(scheme, message, kp.PublicKey(), sig) {
				t.Error("valid signature rejected")
			}

			tampered := append([]byte(nil), sig...)
			tampered[0] ^= 0xff
			if Verify(scheme, message, kp.PublicKey(), tampered) {
				t.Error("tampered signature accepted")
			}

			otherMsg := HashOf([]byte("(transfer \"alice\" \"bob\" 999.0)"))
			if Verify(scheme, otherMsg, kp.PublicKey(), sig) {
				t.Error("signature accepted for a different message")
			}

			other, err := GenKeyPair(scheme)
			if err != nil {
				t.Fatalf("gen key pair: %v", err)
			}
			if Verify(scheme, message, other.PublicKey(), sig) {
				t.Error("signature accepted under a different public key")
			}
		})
	}
}

func TestVerifyMalformedInputs(t *testing.T) {
	message := HashOf([]byte("msg"))

	if Verify(ED25519, message, []byte{0x01}, make([]byte, 64)) {
		t.Error("short ED25519 public key accepted")
	}
	if Verify(ETH, message, make([]byte, 64), []byte{0x01}) {
		t.Error("short ETH signature accepted")
	}
	if Verify(SchemeID("SM2"), message, make([]byte, 32), make([]byte, 64)) {
		t.Error("unknown scheme accepted")
	}
}

func TestDestroyedKeyPairCannotSign(t *testing.T) {
	kp, err := ImportKeyPair(ED25519, ed25519Seed, nil, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	kp.Destroy()

	_, err = kp.Sign(HashOf([]byte("msg")))
	var signErr *SigningError
	if !errors.As(err, &signErr) {
		t.Fatalf("expected SigningError, got %v", err)
	}
}

func TestCanonicalAddressLengths(t *testing.T) {
	if _, err := CanonicalAddress(ED25519, make([]byte, 16)); err == nil {
		t.Error("short ED25519 public key accepted")
	}
	if _, err := CanonicalAddress(ETH, make([]byte, 32)); err == nil {
		t.Error("short ETH public key accepted")
	}

	kp, err := ImportKeyPair(ETH, ethPriv, nil, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	addr, err := CanonicalAddress(ETH, kp.PublicKey())
	if err != nil {
		t.Fatalf("canonical address: %v", err)
	}
	if len(addr) != 40 {
		t.Errorf("ETH address hex length = %d, want 40", len(addr))
	}
}

func TestParseScheme(t *testing.T) {
	tests := []struct {
		name    string
		want    SchemeID
		wantErr bool
	}{
		{"", DefaultScheme(), false},
		{"ED25519", ED25519, false},
		{"eth", ETH, false},
		{"SM2", "", true},
	}
	for _, tc := range tests {
		got, err := ParseScheme(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseScheme(%q) succeeded, want error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseScheme(%q): %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseScheme(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestEd25519ImportSixtyFourBytePrivateKey(t *testing.T) {
	seedPair, err := ImportKeyPair(ED25519, ed25519Seed, nil, "")
	if err != nil {
		t.Fatalf("seed import: %v", err)
	}

	full := append(append([]byte(nil), ed25519Seed...), seedPair.PublicKey()...)
	fullPair, err := ImportKeyPair(ED25519, full, nil, "")
	if err != nil {
		t.Fatalf("full key import: %v", err)
	}

	if !bytes.Equal(seedPair.PublicKey(), fullPair.PublicKey()) {
		t.Error("seed and full-key imports derive different public keys")
	}

	msg := HashOf([]byte("msg"))
	sig, err := fullPair.Sign(msg)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !Verify(ED25519, msg, seedPair.PublicKey(), sig) {
		t.Error("signature from full-key import rejected")
	}
}
