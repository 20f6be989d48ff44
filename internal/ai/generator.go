// Package ai wraps the hosted text-completion service used for CAPTCHA
// questions, answer checking and the developer assistant endpoints.
package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model produced no text
var ErrEmptyResponse = errors.New("ai: empty response")

// Chat roles
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one prior turn of a conversation
type Message struct {
	Role string
	Text string
}

// Request describes a single completion
type Request struct {
	// SystemInstruction is optional
	SystemInstruction string
	Prompt            string
	// History turns a completion into a chat continuation
	History []Message
	// Temperature is left to the model default when nil
	Temperature *float32
}

// Generator produces text for a prompt. Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Temperature is a helper for Request.Temperature
func Temperature(t float32) *float32 {
	return &t
}
