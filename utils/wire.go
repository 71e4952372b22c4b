package utils

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/KonnerEL/pact/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ParseCommand parses and validates a wire Command from JSON. It checks only
// the envelope's structure; authenticity is the verifier's job.
func ParseCommand(data []byte) (*types.Command, error) {
	var cmd types.Command

	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, &types.PactError{
			Code:    types.ErrInvalidCommand,
			Message: fmt.Sprintf("failed to parse command: %v", err),
		}
	}

	if err := validate.Struct(&cmd); err != nil {
		return nil, &types.PactError{
			Code:    types.ErrInvalidCommand,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}

	if len(cmd.Hash.Hash) == 0 {
		return nil, &types.PactError{
			Code:    types.ErrInvalidCommand,
			Message: "validation failed: hash is required",
		}
	}

	return &cmd, nil
}

// ParsePayload parses and validates a serialized Payload. Used by request
// layers that need to inspect a payload without verifying the envelope.
func ParsePayload(data []byte) (*types.Payload, error) {
	var payload types.Payload

	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &types.PactError{
			Code:    types.ErrInvalidPayload,
			Message: fmt.Sprintf("failed to parse payload: %v", err),
		}
	}

	if err := payload.Validate(); err != nil {
		return nil, &types.PactError{
			Code:    types.ErrInvalidPayload,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}

	if err := validate.Struct(&payload); err != nil {
		return nil, &types.PactError{
			Code:    types.ErrInvalidPayload,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}

	return &payload, nil
}

// ParseCommandResult parses a wire CommandResult.
func ParseCommandResult(data []byte) (*types.CommandResult, error) {
	var result types.CommandResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &types.PactError{
			Code:    types.ErrInvalidPayload,
			Message: fmt.Sprintf("failed to parse command result: %v", err),
		}
	}
	return &result, nil
}
