// Package types defines the command envelope data model: the signed Command
// and its Payload, declared signers and attached signatures, the verification
// outcome, and the result/error wire shapes.
package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KonnerEL/pact/crypto"
	"github.com/KonnerEL/pact/parser"
)

// Command is the immutable signed envelope that moves between a client and a
// validating node. Cmd holds the serialized Payload exactly as it was hashed
// and signed; Hash is the Blake2b-256 content hash of those bytes.
type Command struct {
	Cmd  string             `json:"cmd" validate:"required"`
	Sigs []UserSig          `json:"sigs" validate:"required,min=1,dive"`
	Hash crypto.CommandHash `json:"hash"`
}

// RequestKeyOf derives the external lookup/idempotency key for a command.
// Always derived from the hash, never constructed independently; identical
// payload bytes deliberately collide.
func RequestKeyOf(cmd *Command) RequestKey {
	return RequestKey{cmd.Hash}
}

// RequestKey is the idempotency token under which a submitted command is
// tracked and its result looked up.
type RequestKey struct {
	crypto.CommandHash
}

// Payload is the hashed and signed content of a command. The declared signer
// list lives inside the payload so that altering it changes the hash and
// invalidates every existing signature.
type Payload struct {
	Payload PactRPC         `json:"payload"`
	Nonce   string          `json:"nonce"`
	Meta    json.RawMessage `json:"meta,omitempty"`
	Signers []Signer        `json:"signers"`
}

// Validate checks that exactly one RPC variant is present.
func (p *Payload) Validate() error {
	if (p.Payload.Exec == nil) == (p.Payload.Cont == nil) {
		return fmt.Errorf("payload must carry exactly one of exec or cont")
	}
	return nil
}

// PactRPC is the tagged RPC variant inside a payload: run new code, or
// continue a suspended execution.
type PactRPC struct {
	Exec *ExecMsg `json:"exec,omitempty"`
	Cont *ContMsg `json:"cont,omitempty"`
}

// ExecMsg requests execution of new code with optional environment data.
type ExecMsg struct {
	Code string          `json:"code"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ContMsg resumes a suspended multi-step execution.
type ContMsg struct {
	TxID     uint64          `json:"txId"`
	Step     int             `json:"step"`
	Rollback bool            `json:"rollback"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// PublicMeta is the standard payload metadata shape used by chain-facing
// callers. Payload.Meta stays opaque so callers may carry their own.
type PublicMeta struct {
	ChainID  string          `json:"chainId"`
	Sender   string          `json:"sender"`
	GasLimit uint64          `json:"gasLimit"`
	GasPrice decimal.Decimal `json:"gasPrice"`
}

// Signer declares, inside the hashed payload, who must sign the command. It
// is independent of any attached signature.
type Signer struct {
	Scheme crypto.SchemeID `json:"scheme"`
	PubKey string          `json:"pubKey" validate:"required,hexadecimal"`
	Addr   string          `json:"addr" validate:"required,hexadecimal"`
}

// UnmarshalJSON applies the same wire defaults as UserSig: a missing scheme
// is the default scheme, a missing address is the full public key.
func (s *Signer) UnmarshalJSON(data []byte) error {
	var wire struct {
		Scheme string `json:"scheme"`
		PubKey string `json:"pubKey"`
		Addr   string `json:"addr"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	scheme, err := crypto.ParseScheme(wire.Scheme)
	if err != nil {
		return err
	}
	s.Scheme = scheme
	s.PubKey = wire.PubKey
	s.Addr = wire.Addr
	if s.Addr == "" {
		s.Addr = wire.PubKey
	}
	return nil
}

// UserSig is one attached signature. It is self-describing: scheme, public
// key and address travel with the signature bytes so the triple can be checked
// for internal consistency before it is compared against a declared Signer.
type UserSig struct {
	Scheme crypto.SchemeID `json:"scheme"`
	PubKey string          `json:"pubKey" validate:"required,hexadecimal"`
	Addr   string          `json:"addr" validate:"required,hexadecimal"`
	Sig    string          `json:"sig" validate:"required,hexadecimal"`
}

// UnmarshalJSON applies the wire defaults: a missing scheme is the default
// scheme, a missing address is the full public key.
func (u *UserSig) UnmarshalJSON(data []byte) error {
	var wire struct {
		Scheme string `json:"scheme"`
		PubKey string `json:"pubKey"`
		Addr   string `json:"addr"`
		Sig    string `json:"sig"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	scheme, err := crypto.ParseScheme(wire.Scheme)
	if err != nil {
		return err
	}
	u.Scheme = scheme
	u.PubKey = wire.PubKey
	u.Addr = wire.Addr
	if u.Addr == "" {
		u.Addr = wire.PubKey
	}
	u.Sig = wire.Sig
	return nil
}

// ParsedCode is the executable representation of a payload's code text.
type ParsedCode struct {
	Source string        `json:"source"`
	Exprs  []parser.Expr `json:"exprs"`
}

// VerifiedCommand is a command whose bytes, hash and every signature have
// been checked. The hash and signature sequence are carried forward unchanged
// from the raw command.
type VerifiedCommand struct {
	Payload Payload
	Code    *ParsedCode // nil for continuation commands
	Sigs    []UserSig
	Hash    crypto.CommandHash
}

// ProcessedCommand is the sole outcome of verification: either a fully
// verified command or a diagnostic naming every problem found. Never both,
// never neither.
type ProcessedCommand struct {
	Command       *VerifiedCommand
	InvalidReason string
}

// Ok reports whether verification succeeded.
func (p *ProcessedCommand) Ok() bool {
	return p.Command != nil
}

// ExecutionMode governs whether execution is recorded against a transaction
// id or runs locally without one.
type ExecutionMode struct {
	transactional bool
	txID          uint64
}

// Transactional records execution against the given transaction id.
func Transactional(txID uint64) ExecutionMode {
	return ExecutionMode{transactional: true, txID: txID}
}

// Local executes without recording a transaction.
func Local() ExecutionMode {
	return ExecutionMode{}
}

// IsTransactional reports whether the mode carries a transaction id.
func (m ExecutionMode) IsTransactional() bool {
	return m.transactional
}

// TxID returns the transaction id and whether one is present.
func (m ExecutionMode) TxID() (uint64, bool) {
	return m.txID, m.transactional
}

func (m ExecutionMode) String() string {
	if m.transactional {
		return fmt.Sprintf("transactional(%d)", m.txID)
	}
	return "local"
}

// Config carries global library configuration.
type Config struct {
	DefaultTimeout time.Duration `json:"defaultTimeout,omitempty"`
	LogLevel       string        `json:"logLevel,omitempty"`
	EnableMetrics  bool          `json:"enableMetrics,omitempty"`
}
