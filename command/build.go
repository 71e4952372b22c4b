// Package command builds signed command envelopes from key pairs and payload
// bytes. The builder is the client-side half of the protocol; verification of
// what it produces lives in the verification package.
package command

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/KonnerEL/pact/crypto"
	"github.com/KonnerEL/pact/types"
)

// New signs the serialized payload with every key pair, in order, and wraps
// the results into a Command. Signature order matches key-pair order, which
// must in turn match the payload's declared signer order. Any signing failure
// aborts the whole build; no partial command is returned.
func New(keys []*crypto.KeyPair, payload []byte) (*types.Command, error) {
	hash := crypto.HashCommand(payload)

	sigs := make([]types.UserSig, 0, len(keys))
	for i, kp := range keys {
		sig, err := SignHash(kp, hash)
		if err != nil {
			return nil, fmt.Errorf("signer %d: %w", i, err)
		}
		sigs = append(sigs, sig)
	}

	return &types.Command{
		Cmd:  string(payload),
		Sigs: sigs,
		Hash: hash,
	}, nil
}

// SignHash produces one self-consistent UserSig: scheme, public key and
// canonical address all come from the key pair itself.
func SignHash(kp *crypto.KeyPair, hash crypto.CommandHash) (types.UserSig, error) {
	raw, err := kp.Sign(hash.Hash)
	if err != nil {
		return types.UserSig{}, err
	}
	return types.UserSig{
		Scheme: kp.Scheme(),
		PubKey: kp.PublicKeyHex(),
		Addr:   kp.Address(),
		Sig:    hex.EncodeToString(raw),
	}, nil
}

// SignersFor declares one payload Signer per key pair, preserving order.
func SignersFor(keys []*crypto.KeyPair) []types.Signer {
	signers := make([]types.Signer, 0, len(keys))
	for _, kp := range keys {
		signers = append(signers, types.Signer{
			Scheme: kp.Scheme(),
			PubKey: kp.PublicKeyHex(),
			Addr:   kp.Address(),
		})
	}
	return signers
}

// BuildExec constructs an exec payload whose declared signers are derived
// from the key pairs, serializes it, and signs it.
func BuildExec(keys []*crypto.KeyPair, code string, data, meta json.RawMessage, nonce string) (*types.Command, error) {
	payload := types.Payload{
		Payload: types.PactRPC{
			Exec: &types.ExecMsg{Code: code, Data: data},
		},
		Nonce:   nonce,
		Meta:    meta,
		Signers: SignersFor(keys),
	}
	return buildPayload(keys, &payload)
}

// BuildCont constructs a continuation payload whose declared signers are
// derived from the key pairs, serializes it, and signs it.
func BuildCont(keys []*crypto.KeyPair, txID uint64, step int, rollback bool, data, meta json.RawMessage, nonce string) (*types.Command, error) {
	payload := types.Payload{
		Payload: types.PactRPC{
			Cont: &types.ContMsg{TxID: txID, Step: step, Rollback: rollback, Data: data},
		},
		Nonce:   nonce,
		Meta:    meta,
		Signers: SignersFor(keys),
	}
	return buildPayload(keys, &payload)
}

func buildPayload(keys []*crypto.KeyPair, payload *types.Payload) (*types.Command, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return New(keys, raw)
}
