package crypto

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// HashLength is the size in bytes of a Blake2b-256 digest.
const HashLength = 32

// Hash is a Blake2b-256 digest of arbitrary bytes. It crosses the wire
// hex-encoded without a prefix.
type Hash []byte

// HashOf computes the content hash of the given bytes.
func HashOf(data []byte) Hash {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// Hex returns the lowercase hex encoding of the digest.
func (h Hash) Hex() string {
	return hex.EncodeToString(h)
}

func (h Hash) String() string {
	return h.Hex()
}

// Equal reports whether two digests are byte-for-byte identical.
func (h Hash) Equal(other Hash) bool {
	return bytes.Equal(h, other)
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash decodes a hex-encoded digest and checks its length.
func ParseHash(s string) (Hash, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(raw) != HashLength {
		return nil, fmt.Errorf("invalid hash length: expected %d bytes, got %d", HashLength, len(raw))
	}
	return Hash(raw), nil
}

// CommandHash is the content hash of a serialized command payload, as opposed
// to a generic digest. Signatures are made over this value.
type CommandHash struct {
	Hash
}

// HashCommand computes the command hash of serialized payload bytes.
func HashCommand(payload []byte) CommandHash {
	return CommandHash{HashOf(payload)}
}

// ParseCommandHash decodes a hex-encoded command hash.
func ParseCommandHash(s string) (CommandHash, error) {
	h, err := ParseHash(s)
	if err != nil {
		return CommandHash{}, err
	}
	return CommandHash{h}, nil
}
