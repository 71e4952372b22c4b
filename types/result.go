package types

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CommandResult is what the execution interface reports for one command.
type CommandResult struct {
	ReqKey RequestKey      `json:"reqKey"`
	TxID   *uint64         `json:"txId,omitempty"`
	Result PactResult      `json:"result"`
	Gas    decimal.Decimal `json:"gas"`
}

// PactResult is the tagged success/failure result value. It marshals to
// {"status":"success","data":...} or {"status":"failure","error":...,
// "detail":...}.
type PactResult struct {
	Data  json.RawMessage
	Error *CommandError
}

// ResultSuccess wraps an execution result value.
func ResultSuccess(data json.RawMessage) PactResult {
	return PactResult{Data: data}
}

// ResultFailure wraps a failure message with optional detail.
func ResultFailure(message, detail string) PactResult {
	return PactResult{Error: &CommandError{Message: message, Detail: detail}}
}

// Ok reports whether the result is a success.
func (r PactResult) Ok() bool {
	return r.Error == nil
}

func (r PactResult) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		wire := struct {
			Status string `json:"status"`
			Error  string `json:"error"`
			Detail string `json:"detail,omitempty"`
		}{
			Status: "failure",
			Error:  r.Error.Message,
			Detail: r.Error.Detail,
		}
		return json.Marshal(wire)
	}
	wire := struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}{
		Status: "success",
		Data:   r.Data,
	}
	return json.Marshal(wire)
}

func (r *PactResult) UnmarshalJSON(data []byte) error {
	var wire struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  string          `json:"error"`
		Detail string          `json:"detail"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Status {
	case "success":
		r.Data = wire.Data
		r.Error = nil
	case "failure":
		r.Data = nil
		r.Error = &CommandError{Message: wire.Error, Detail: wire.Detail}
	default:
		return fmt.Errorf("unknown result status: %q", wire.Status)
	}
	return nil
}

// CommandError is the wire failure shape inside a failed PactResult.
type CommandError struct {
	Message string `json:"error"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CommandError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}
