// Package faucet orchestrates a token request: address validation, challenge
// verification, cooldown enforcement, disbursement and cooldown recording.
package faucet

import (
	"fmt"
	"time"
)

// Kind classifies a failed request
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidAddress
	KindChallengeFailed
	KindOnCooldown
	KindInsufficientFunds
	KindStoreUnavailable
	KindUpstreamUnavailable
	KindTransferFailed
	KindServiceUnavailable
)

var kindNames = map[Kind]string{
	KindInternal:            "internal",
	KindInvalidAddress:      "invalid_address",
	KindChallengeFailed:     "challenge_failed",
	KindOnCooldown:          "on_cooldown",
	KindInsufficientFunds:   "insufficient_funds",
	KindStoreUnavailable:    "store_unavailable",
	KindUpstreamUnavailable: "upstream_unavailable",
	KindTransferFailed:      "transfer_failed",
	KindServiceUnavailable:  "service_unavailable",
}

// String returns the snake_case name, also used as the metrics outcome label
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the only error type RequestTokens returns
type Error struct {
	Kind    Kind
	Message string
	// CooldownRemaining is set for KindOnCooldown
	CooldownRemaining time.Duration
	// TxHash is set when a transfer was broadcast but not confirmed
	TxHash string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}
