// Package chain holds the disbursement engine and the chain backends it drives.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Giri-Aayush/fitochain-faucet/internal/metrics"
)

var (
	// ErrInsufficientFunds means the faucet balance is below the disbursement amount
	ErrInsufficientFunds = errors.New("faucet balance too low")
	// ErrTransferFailed means the transfer was rejected or its outcome is unknown
	ErrTransferFailed = errors.New("transfer failed")
	// ErrUpstreamUnavailable means the node could not be queried before anything was submitted
	ErrUpstreamUnavailable = errors.New("chain rpc unavailable")
)

// TransferError is returned when a transfer fails after it may have been broadcast.
// TxHash is empty when submission itself failed.
type TransferError struct {
	TxHash string
	Err    error
}

func (e *TransferError) Error() string {
	if e.TxHash == "" {
		return fmt.Sprintf("transfer failed: %v", e.Err)
	}
	return fmt.Sprintf("transfer %s failed: %v", e.TxHash, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTransferFailed) hold for every TransferError
func (e *TransferError) Is(target error) bool { return target == ErrTransferFailed }

// Backend is a single funded account on one chain
type Backend interface {
	// Address is the faucet account
	Address() string
	ValidateAddress(address string) error
	// NormalizeAddress returns the canonical form used for cooldown keys
	NormalizeAddress(address string) string
	Balance(ctx context.Context) (*big.Int, error)
	// Submit signs and broadcasts a native transfer and returns its hash
	Submit(ctx context.Context, to string, amount *big.Int) (string, error)
	// WaitConfirmed blocks until the transaction is included successfully or ctx ends
	WaitConfirmed(ctx context.Context, txHash string) error
}

// nonceResetter is implemented by backends that track nonces locally
type nonceResetter interface {
	ResetNonce()
}

// Engine sends the fixed faucet amount and waits for confirmation
type Engine struct {
	backend        Backend
	amount         *big.Int
	confirmTimeout time.Duration
	logger         *zap.Logger
	metrics        *metrics.Metrics

	// submitMu serializes nonce fetch, signing and broadcast on the shared key
	submitMu sync.Mutex
}

// NewEngine creates a disbursement engine. m may be nil.
func NewEngine(backend Backend, amount *big.Int, confirmTimeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		backend:        backend,
		amount:         new(big.Int).Set(amount),
		confirmTimeout: confirmTimeout,
		logger:         logger,
		metrics:        m,
	}
}

// Amount returns the disbursement amount in base units
func (e *Engine) Amount() *big.Int {
	return new(big.Int).Set(e.amount)
}

// FaucetAddress returns the funding account
func (e *Engine) FaucetAddress() string {
	return e.backend.Address()
}

// ValidateAddress checks a recipient against the chain's address format
func (e *Engine) ValidateAddress(address string) error {
	return e.backend.ValidateAddress(address)
}

// NormalizeAddress returns the cooldown key for an address
func (e *Engine) NormalizeAddress(address string) string {
	return e.backend.NormalizeAddress(address)
}

// Balance returns the faucet balance
func (e *Engine) Balance(ctx context.Context) (*big.Int, error) {
	balance, err := e.backend.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return balance, nil
}

// Disburse sends the faucet amount to an already validated address and returns
// the hash only once the transaction is confirmed.
func (e *Engine) Disburse(ctx context.Context, address string) (string, error) {
	balance, err := e.Balance(ctx)
	if err != nil {
		return "", err
	}
	// Only the amount is reserved. A balance that covers the amount but not
	// the fee fails at broadcast as TransferFailed.
	if balance.Cmp(e.amount) < 0 {
		e.logger.Warn("Faucet balance too low",
			zap.String("balance", balance.String()),
			zap.String("amount", e.amount.String()),
		)
		return "", ErrInsufficientFunds
	}

	start := time.Now()

	e.submitMu.Lock()
	txHash, err := e.backend.Submit(ctx, address, e.amount)
	e.submitMu.Unlock()
	if err != nil {
		return "", &TransferError{Err: err}
	}

	e.logger.Info("Transaction submitted",
		zap.String("tx_hash", txHash),
		zap.String("recipient", address),
	)

	// Confirmation runs outside the lock so transfers overlap on the wait
	waitCtx, cancel := context.WithTimeout(ctx, e.confirmTimeout)
	defer cancel()
	if err := e.backend.WaitConfirmed(waitCtx, txHash); err != nil {
		e.logger.Error("Transaction not confirmed",
			zap.String("tx_hash", txHash),
			zap.String("recipient", address),
			zap.Error(err),
		)
		if r, ok := e.backend.(nonceResetter); ok {
			r.ResetNonce()
		}
		return "", &TransferError{TxHash: txHash, Err: err}
	}

	e.metrics.ObserveDisbursement(time.Since(start))
	e.logger.Info("Transaction confirmed", zap.String("tx_hash", txHash))
	return txHash, nil
}
