package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/KonnerEL/pact/crypto"
)

func TestUserSigDefaults(t *testing.T) {
	tests := []struct {
		name       string
		wire       string
		wantScheme crypto.SchemeID
		wantAddr   string
	}{
		{
			"all fields",
			`{"scheme":"ETH","pubKey":"aa11","addr":"bb22","sig":"cc33"}`,
			crypto.ETH, "bb22",
		},
		{
			"missing scheme",
			`{"pubKey":"aa11","addr":"bb22","sig":"cc33"}`,
			crypto.ED25519, "bb22",
		},
		{
			"missing addr",
			`{"scheme":"ETH","pubKey":"aa11","sig":"cc33"}`,
			crypto.ETH, "aa11",
		},
		{
			"missing both",
			`{"pubKey":"aa11","sig":"cc33"}`,
			crypto.ED25519, "aa11",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var sig UserSig
			if err := json.Unmarshal([]byte(tc.wire), &sig); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if sig.Scheme != tc.wantScheme {
				t.Errorf("scheme = %s, want %s", sig.Scheme, tc.wantScheme)
			}
			if sig.Addr != tc.wantAddr {
				t.Errorf("addr = %s, want %s", sig.Addr, tc.wantAddr)
			}
			if sig.PubKey != "aa11" || sig.Sig != "cc33" {
				t.Errorf("pubKey/sig not preserved: %+v", sig)
			}
		})
	}

	var bad UserSig
	if err := json.Unmarshal([]byte(`{"scheme":"SM2","pubKey":"aa","sig":"bb"}`), &bad); err == nil {
		t.Error("unknown scheme accepted")
	}
}

func TestSignerDefaults(t *testing.T) {
	var signer Signer
	if err := json.Unmarshal([]byte(`{"pubKey":"aa11"}`), &signer); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if signer.Scheme != crypto.DefaultScheme() {
		t.Errorf("scheme = %s, want default %s", signer.Scheme, crypto.DefaultScheme())
	}
	if signer.Addr != "aa11" {
		t.Errorf("addr = %s, want pubKey", signer.Addr)
	}
}

func TestPayloadValidate(t *testing.T) {
	exec := &ExecMsg{Code: "(+ 1 2)"}
	cont := &ContMsg{TxID: 7, Step: 1}

	tests := []struct {
		name    string
		rpc     PactRPC
		wantErr bool
	}{
		{"exec only", PactRPC{Exec: exec}, false},
		{"cont only", PactRPC{Cont: cont}, false},
		{"neither", PactRPC{}, true},
		{"both", PactRPC{Exec: exec, Cont: cont}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Payload{Payload: tc.rpc, Nonce: "n"}
			err := p.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRequestKeyDerivation(t *testing.T) {
	payload := []byte(`{"payload":{"exec":{"code":"1"}},"nonce":"n","signers":[]}`)

	a := &Command{Cmd: string(payload), Hash: crypto.HashCommand(payload)}
	b := &Command{Cmd: string(payload), Hash: crypto.HashCommand(payload)}
	if RequestKeyOf(a).Hex() != RequestKeyOf(b).Hex() {
		t.Error("identical payloads produce different request keys")
	}

	other := append(append([]byte(nil), payload...), ' ')
	c := &Command{Cmd: string(other), Hash: crypto.HashCommand(other)}
	if RequestKeyOf(a).Hex() == RequestKeyOf(c).Hex() {
		t.Error("distinct payloads collide on request key")
	}
}

func TestExecutionMode(t *testing.T) {
	tx := Transactional(42)
	if !tx.IsTransactional() {
		t.Error("Transactional mode not transactional")
	}
	if id, ok := tx.TxID(); !ok || id != 42 {
		t.Errorf("TxID() = %d, %v; want 42, true", id, ok)
	}
	if tx.String() != "transactional(42)" {
		t.Errorf("String() = %s", tx)
	}

	local := Local()
	if local.IsTransactional() {
		t.Error("Local mode is transactional")
	}
	if _, ok := local.TxID(); ok {
		t.Error("Local mode carries a transaction id")
	}
	if local.String() != "local" {
		t.Errorf("String() = %s", local)
	}
}

func TestCommandWireRoundTrip(t *testing.T) {
	payload := `{"payload":{"exec":{"code":"(+ 1 2)"}},"nonce":"n","signers":[{"pubKey":"aa"}]}`
	cmd := Command{
		Cmd: payload,
		Sigs: []UserSig{
			{Scheme: crypto.ED25519, PubKey: "aa", Addr: "aa", Sig: "bb"},
		},
		Hash: crypto.HashCommand([]byte(payload)),
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"cmd"`, `"sigs"`, `"hash"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("wire form missing %s: %s", key, data)
		}
	}

	var back Command
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Cmd != cmd.Cmd || !back.Hash.Equal(cmd.Hash.Hash) || len(back.Sigs) != 1 {
		t.Errorf("command changed across round trip: %+v", back)
	}
}
