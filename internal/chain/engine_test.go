package chain_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Giri-Aayush/fitochain-faucet/internal/chain"
	"github.com/Giri-Aayush/fitochain-faucet/internal/chain/chaintest"
)

const (
	recipient = "0x1111111111111111111111111111111111111111"
	txHash    = "0xabababababababababababababababababababababababababababababababab"
)

func newEngine(backend chain.Backend, amount int64, timeout time.Duration) *chain.Engine {
	return chain.NewEngine(backend, big.NewInt(amount), timeout, zap.NewNop(), nil)
}

func TestDisburseSuccess(t *testing.T) {
	backend := new(chaintest.Backend)
	backend.On("Balance", mock.Anything).Return(big.NewInt(5000), nil)
	backend.On("Submit", mock.Anything, recipient, big.NewInt(500)).Return(txHash, nil)
	backend.On("WaitConfirmed", mock.Anything, txHash).Return(nil)

	hash, err := newEngine(backend, 500, time.Second).Disburse(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, txHash, hash)
	backend.AssertExpectations(t)
}

func TestDisburseInsufficientFunds(t *testing.T) {
	backend := new(chaintest.Backend)
	backend.On("Balance", mock.Anything).Return(big.NewInt(10), nil)

	hash, err := newEngine(backend, 500, time.Second).Disburse(context.Background(), recipient)
	assert.ErrorIs(t, err, chain.ErrInsufficientFunds)
	assert.Empty(t, hash)
	backend.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestDisburseBalanceEqualToAmount(t *testing.T) {
	backend := new(chaintest.Backend)
	backend.On("Balance", mock.Anything).Return(big.NewInt(500), nil)
	backend.On("Submit", mock.Anything, recipient, big.NewInt(500)).Return(txHash, nil)
	backend.On("WaitConfirmed", mock.Anything, txHash).Return(nil)

	_, err := newEngine(backend, 500, time.Second).Disburse(context.Background(), recipient)
	require.NoError(t, err)
}

func TestDisburseBalanceUnavailable(t *testing.T) {
	backend := new(chaintest.Backend)
	backend.On("Balance", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := newEngine(backend, 500, time.Second).Disburse(context.Background(), recipient)
	assert.ErrorIs(t, err, chain.ErrUpstreamUnavailable)
	assert.NotErrorIs(t, err, chain.ErrTransferFailed)
	backend.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestDisburseSubmitFails(t *testing.T) {
	backend := new(chaintest.Backend)
	backend.On("Balance", mock.Anything).Return(big.NewInt(5000), nil)
	backend.On("Submit", mock.Anything, recipient, mock.Anything).Return("", errors.New("nonce too low"))

	_, err := newEngine(backend, 500, time.Second).Disburse(context.Background(), recipient)
	require.ErrorIs(t, err, chain.ErrTransferFailed)

	var terr *chain.TransferError
	require.ErrorAs(t, err, &terr)
	assert.Empty(t, terr.TxHash)
	backend.AssertNotCalled(t, "WaitConfirmed", mock.Anything, mock.Anything)
}

func TestDisburseNotConfirmed(t *testing.T) {
	backend := new(chaintest.Backend)
	backend.On("Balance", mock.Anything).Return(big.NewInt(5000), nil)
	backend.On("Submit", mock.Anything, recipient, mock.Anything).Return(txHash, nil)
	backend.On("WaitConfirmed", mock.Anything, txHash).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(context.DeadlineExceeded)

	start := time.Now()
	hash, err := newEngine(backend, 500, 50*time.Millisecond).Disburse(context.Background(), recipient)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Empty(t, hash)
	require.ErrorIs(t, err, chain.ErrTransferFailed)

	var terr *chain.TransferError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, txHash, terr.TxHash)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEngineAmountIsCopied(t *testing.T) {
	amount := big.NewInt(500)
	engine := chain.NewEngine(new(chaintest.Backend), amount, time.Second, zap.NewNop(), nil)

	amount.SetInt64(1)
	got := engine.Amount()
	assert.Equal(t, int64(500), got.Int64())

	got.SetInt64(2)
	assert.Equal(t, int64(500), engine.Amount().Int64())
}

type resettingBackend struct {
	*chaintest.Backend
	resets int
}

func (b *resettingBackend) ResetNonce() { b.resets++ }

func TestDisburseResetsNonceOnlyWhenUnconfirmed(t *testing.T) {
	backend := &resettingBackend{Backend: new(chaintest.Backend)}
	backend.On("Balance", mock.Anything).Return(big.NewInt(5000), nil)
	backend.On("Submit", mock.Anything, recipient, mock.Anything).Return(txHash, nil)
	backend.On("WaitConfirmed", mock.Anything, txHash).Return(errors.New("receipt not found")).Once()
	backend.On("WaitConfirmed", mock.Anything, txHash).Return(nil).Once()

	engine := newEngine(backend, 500, time.Second)

	_, err := engine.Disburse(context.Background(), recipient)
	require.ErrorIs(t, err, chain.ErrTransferFailed)
	assert.Equal(t, 1, backend.resets)

	_, err = engine.Disburse(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.resets)
}
