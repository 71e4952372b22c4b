// Package verification authenticates command envelopes: hash integrity,
// payload decoding, code parsing, and the pairwise cross-check of attached
// signatures against the payload's declared signers.
package verification

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KonnerEL/pact/crypto"
	"github.com/KonnerEL/pact/parser"
	"github.com/KonnerEL/pact/types"
)

// VerifyCommand authenticates a raw command and returns the sole outcome:
// either a VerifiedCommand carrying the parsed payload with the original hash
// and signatures, or a diagnostic naming every problem found.
//
// All checks are attempted rather than short-circuited, so a multi-signer
// command with several defects reports them all at once. The diagnostic
// concatenates sub-errors in a fixed order: decode/parse errors, then hash
// integrity, then per-signature errors. Nothing here panics or performs I/O;
// a failed verification is data, not control flow.
func VerifyCommand(cmd *types.Command, p parser.Parser) *types.ProcessedCommand {
	if p == nil {
		p = parser.Default()
	}

	var errs []string
	raw := []byte(cmd.Cmd)

	// Decode the payload and, when it carries exec code, parse it.
	var payload *types.Payload
	var parsed *types.ParsedCode
	decoded := types.Payload{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		errs = append(errs, fmt.Sprintf("decode payload: %v", err))
	} else if err := decoded.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("decode payload: %v", err))
	} else {
		payload = &decoded
		if exec := decoded.Payload.Exec; exec != nil {
			exprs, err := p.Parse(exec.Code)
			if err != nil {
				errs = append(errs, fmt.Sprintf("parse code: %v", err))
			} else {
				parsed = &types.ParsedCode{Source: exec.Code, Exprs: exprs}
			}
		}
	}

	// Integrity: the stored hash must be the content hash of the exact bytes.
	computed := crypto.HashCommand(raw)
	hashOK := computed.Equal(cmd.Hash.Hash)
	if !hashOK {
		errs = append(errs, fmt.Sprintf("hash mismatch: computed %s, command declares %s", computed, cmd.Hash))
	}

	// Signature cross-check is only meaningful against a decoded signer list.
	sigsOK := false
	if payload != nil {
		if len(cmd.Sigs) != len(payload.Signers) {
			errs = append(errs, fmt.Sprintf("signature count mismatch: %d signatures for %d declared signers",
				len(cmd.Sigs), len(payload.Signers)))
		} else {
			sigsOK = true
			for i := range payload.Signers {
				if err := verifyUserSig(cmd.Hash, cmd.Sigs[i], payload.Signers[i]); err != nil {
					errs = append(errs, fmt.Sprintf("signature %d: %v", i, err))
					sigsOK = false
				}
			}
		}
	}

	parseOK := payload == nil || payload.Payload.Exec == nil || parsed != nil
	if payload == nil || !parseOK || !hashOK || !sigsOK {
		return &types.ProcessedCommand{InvalidReason: strings.Join(errs, "; ")}
	}

	return &types.ProcessedCommand{
		Command: &types.VerifiedCommand{
			Payload: *payload,
			Code:    parsed,
			Sigs:    cmd.Sigs,
			Hash:    cmd.Hash,
		},
	}
}

// verifyUserSig checks one attached signature against the signer declared at
// the same position. Three gates, all required:
//
//  1. internal self-consistency: the attached address must be the canonical
//     address of the attached (scheme, pubKey);
//  2. binding: attached scheme and address must equal the declared signer's,
//     so a valid signature cannot be replayed into another signer's slot;
//  3. cryptographic validity of the signature over the command hash.
func verifyUserSig(hash crypto.CommandHash, sig types.UserSig, signer types.Signer) error {
	if !sig.Scheme.Valid() {
		return fmt.Errorf("unsupported scheme %q", sig.Scheme)
	}

	pub, err := hex.DecodeString(sig.PubKey)
	if err != nil {
		return fmt.Errorf("invalid public key hex: %v", err)
	}

	canonical, err := crypto.CanonicalAddress(sig.Scheme, pub)
	if err != nil {
		return fmt.Errorf("derive address: %v", err)
	}
	if canonical != sig.Addr {
		return fmt.Errorf("address %s does not match public key (canonical %s)", sig.Addr, canonical)
	}

	if sig.Scheme != signer.Scheme {
		return fmt.Errorf("scheme %s does not match declared signer scheme %s", sig.Scheme, signer.Scheme)
	}
	if sig.Addr != signer.Addr {
		return fmt.Errorf("address %s does not match declared signer address %s", sig.Addr, signer.Addr)
	}

	raw, err := hex.DecodeString(sig.Sig)
	if err != nil {
		return fmt.Errorf("invalid signature hex: %v", err)
	}
	if !crypto.Verify(signer.Scheme, hash.Hash, pub, raw) {
		return fmt.Errorf("cryptographic verification failed")
	}
	return nil
}
