package faucet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Giri-Aayush/fitochain-faucet/internal/cache"
	"github.com/Giri-Aayush/fitochain-faucet/internal/captcha"
	"github.com/Giri-Aayush/fitochain-faucet/internal/chain"
	"github.com/Giri-Aayush/fitochain-faucet/internal/metrics"
)

// State is a step of a single token request
type State int

const (
	StateValidating State = iota
	StateVerifyingChallenge
	StateCheckingCooldown
	StateDisbursing
	StateRecordingCooldown
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateVerifyingChallenge:
		return "verifying_challenge"
	case StateCheckingCooldown:
		return "checking_cooldown"
	case StateDisbursing:
		return "disbursing"
	case StateRecordingCooldown:
		return "recording_cooldown"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ChallengeVerifier judges an answer to an issued question
type ChallengeVerifier interface {
	Verify(ctx context.Context, question, answer string) (bool, error)
}

// CooldownStore keeps the last successful claim per normalized address
type CooldownStore interface {
	GetLastClaim(ctx context.Context, key string) (time.Time, bool, error)
	SetLastClaim(ctx context.Context, key string, at time.Time, ttl time.Duration) error
}

// Disburser validates recipients and sends the faucet amount
type Disburser interface {
	ValidateAddress(address string) error
	NormalizeAddress(address string) string
	Disburse(ctx context.Context, address string) (string, error)
	Amount() *big.Int
}

// Request is a token request as received from a client
type Request struct {
	Address  string
	Question string
	Answer   string
}

// Result describes a confirmed disbursement
type Result struct {
	TxHash  string
	Address string
	Amount  *big.Int
}

// Gate runs token requests through the faucet state machine
type Gate struct {
	verifier ChallengeVerifier
	store    CooldownStore
	engine   Disburser
	period   time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option configures a Gate
type Option func(*Gate)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// WithMetrics records request outcomes
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

// NewGate creates a gate enforcing one claim per address per period
func NewGate(verifier ChallengeVerifier, store CooldownStore, engine Disburser, period time.Duration, logger *zap.Logger, opts ...Option) *Gate {
	g := &Gate{
		verifier: verifier,
		store:    store,
		engine:   engine,
		period:   period,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Period returns the cooldown period
func (g *Gate) Period() time.Duration {
	return g.period
}

// Remaining returns the cooldown left after a claim at lastClaim, measured on
// the gate's clock. A non-positive value means the address may claim again.
func (g *Gate) Remaining(lastClaim time.Time) time.Duration {
	return g.period - g.now().Sub(lastClaim)
}

// RequestTokens verifies the challenge, enforces the cooldown and sends tokens.
// On failure the returned error is always a *Error.
func (g *Gate) RequestTokens(ctx context.Context, req Request) (*Result, error) {
	result, err := g.run(ctx, req)
	if err != nil {
		var ferr *Error
		if !errors.As(err, &ferr) {
			ferr = newError(KindInternal, "An unexpected error occurred. Please try again later.", err)
		}
		g.enter(StateError, req.Address)
		g.metrics.ObserveRequest(ferr.Kind.String())
		return nil, ferr
	}
	g.metrics.ObserveRequest("success")
	return result, nil
}

func (g *Gate) run(ctx context.Context, req Request) (*Result, error) {
	g.enter(StateValidating, req.Address)
	address := strings.TrimSpace(req.Address)
	if err := g.engine.ValidateAddress(address); err != nil {
		return nil, newError(KindInvalidAddress, "Invalid wallet address provided.", err)
	}
	key := g.engine.NormalizeAddress(address)

	g.enter(StateVerifyingChallenge, key)
	question := strings.TrimSpace(req.Question)
	answer := strings.TrimSpace(req.Answer)
	if question == "" || answer == "" {
		return nil, newError(KindChallengeFailed, "CAPTCHA validation failed. Please answer the question.", nil)
	}
	ok, err := g.verifier.Verify(ctx, question, answer)
	if err != nil {
		if errors.Is(err, captcha.ErrUpstreamUnavailable) {
			return nil, newError(KindUpstreamUnavailable, "Could not verify your answer. Please try again.", err)
		}
		return nil, err
	}
	if !ok {
		return nil, newError(KindChallengeFailed, "Incorrect CAPTCHA answer. Please try again.", nil)
	}

	g.enter(StateCheckingCooldown, key)
	lastClaim, found, err := g.store.GetLastClaim(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrStoreUnavailable) {
			return nil, newError(KindStoreUnavailable, "Could not connect to the storage service. Please try again later.", err)
		}
		return nil, err
	}
	if found {
		if remaining := g.Remaining(lastClaim); remaining > 0 {
			return nil, &Error{
				Kind:              KindOnCooldown,
				Message:           cooldownMessage(remaining),
				CooldownRemaining: remaining,
			}
		}
	}

	g.enter(StateDisbursing, key)
	txHash, err := g.engine.Disburse(ctx, address)
	if err != nil {
		return nil, classifyDisburseError(err)
	}

	g.enter(StateRecordingCooldown, key)
	if err := g.store.SetLastClaim(ctx, key, g.now(), g.period); err != nil {
		// tokens already left the faucet; the request still succeeds
		g.logger.Error("Failed to record cooldown",
			zap.String("address", key),
			zap.String("tx_hash", txHash),
			zap.Error(err),
		)
	}

	g.enter(StateDone, key)
	return &Result{
		TxHash:  txHash,
		Address: key,
		Amount:  g.engine.Amount(),
	}, nil
}

func classifyDisburseError(err error) error {
	switch {
	case errors.Is(err, chain.ErrInsufficientFunds):
		return newError(KindInsufficientFunds, "Faucet is currently empty. Please try again later.", err)
	case errors.Is(err, chain.ErrUpstreamUnavailable):
		return newError(KindUpstreamUnavailable, "The network is unavailable. Please try again later.", err)
	case errors.Is(err, chain.ErrTransferFailed):
		ferr := newError(KindTransferFailed, "An error occurred while sending the transaction. Please try again later.", err)
		var terr *chain.TransferError
		if errors.As(err, &terr) {
			ferr.TxHash = terr.TxHash
		}
		return ferr
	default:
		return err
	}
}

func cooldownMessage(remaining time.Duration) string {
	hours := int(math.Ceil(remaining.Hours()))
	if hours <= 1 {
		return "Rate limit: Please try again in 1 hour."
	}
	return fmt.Sprintf("Rate limit: Please try again in %d hours.", hours)
}

func (g *Gate) enter(state State, address string) {
	g.logger.Debug("Faucet request state",
		zap.String("state", state.String()),
		zap.String("address", address),
	)
}
