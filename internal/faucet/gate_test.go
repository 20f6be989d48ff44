package faucet_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Giri-Aayush/fitochain-faucet/internal/cache"
	"github.com/Giri-Aayush/fitochain-faucet/internal/captcha"
	"github.com/Giri-Aayush/fitochain-faucet/internal/chain"
	"github.com/Giri-Aayush/fitochain-faucet/internal/faucet"
	"github.com/Giri-Aayush/fitochain-faucet/pkg/utils"
)

const (
	address = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	txHash  = "0x1c8a1b2a6bfa7c1d0b1f0f3c1c5a4e1f6a8a3d5f0e1b2c3d4e5f60718293a4b5"
	period  = 24 * time.Hour
)

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(ctx context.Context, question, answer string) (bool, error) {
	args := m.Called(ctx, question, answer)
	return args.Bool(0), args.Error(1)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) GetLastClaim(ctx context.Context, key string) (time.Time, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Time), args.Bool(1), args.Error(2)
}

func (m *mockStore) SetLastClaim(ctx context.Context, key string, at time.Time, ttl time.Duration) error {
	return m.Called(ctx, key, at, ttl).Error(0)
}

// stubDisburser validates EVM addresses and records every disbursement
type stubDisburser struct {
	err   error
	calls []string
}

func (d *stubDisburser) ValidateAddress(a string) error  { return utils.ValidateEVMAddress(a) }
func (d *stubDisburser) NormalizeAddress(a string) string { return utils.NormalizeEVMAddress(a) }
func (d *stubDisburser) Amount() *big.Int                 { return big.NewInt(1000) }

func (d *stubDisburser) Disburse(_ context.Context, a string) (string, error) {
	d.calls = append(d.calls, a)
	if d.err != nil {
		return "", d.err
	}
	return txHash, nil
}

func validRequest() faucet.Request {
	return faucet.Request{Address: address, Question: "What is 2 + 2?", Answer: "4"}
}

func acceptAll() *mockVerifier {
	v := new(mockVerifier)
	v.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	return v
}

func newRedisStore(t *testing.T) *cache.RedisClient {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := cache.NewRedisClient(fmt.Sprintf("redis://%s", mr.Addr()), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func requireKind(t *testing.T, err error, kind faucet.Kind) *faucet.Error {
	t.Helper()
	var ferr *faucet.Error
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, kind, ferr.Kind, ferr.Error())
	assert.NotEmpty(t, ferr.Message)
	return ferr
}

func TestRequestTokensSuccessRecordsCooldown(t *testing.T) {
	store := newRedisStore(t)
	engine := &stubDisburser{}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	gate := faucet.NewGate(acceptAll(), store, engine, period, zap.NewNop(),
		faucet.WithClock(func() time.Time { return now }))

	result, err := gate.RequestTokens(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, txHash, result.TxHash)
	assert.Equal(t, utils.NormalizeEVMAddress(address), result.Address)
	assert.Equal(t, int64(1000), result.Amount.Int64())

	at, found, err := store.GetLastClaim(context.Background(), utils.NormalizeEVMAddress(address))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, now.UnixMilli(), at.UnixMilli())
}

func TestRequestTokensCooldown(t *testing.T) {
	store := newRedisStore(t)
	engine := &stubDisburser{}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	gate := faucet.NewGate(acceptAll(), store, engine, period, zap.NewNop(),
		faucet.WithClock(func() time.Time { return now }))

	_, err := gate.RequestTokens(context.Background(), validRequest())
	require.NoError(t, err)

	// An hour later, with the address in a different case
	now = now.Add(time.Hour)
	req := validRequest()
	req.Address = utils.NormalizeEVMAddress(address)
	_, err = gate.RequestTokens(context.Background(), req)
	ferr := requireKind(t, err, faucet.KindOnCooldown)
	assert.Equal(t, 23*time.Hour, ferr.CooldownRemaining)
	assert.Contains(t, ferr.Message, "23 hours")
	assert.Len(t, engine.calls, 1)

	// After the period the address may claim again
	now = now.Add(23 * time.Hour)
	_, err = gate.RequestTokens(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Len(t, engine.calls, 2)
}

func TestRemaining(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	gate := faucet.NewGate(acceptAll(), newRedisStore(t), &stubDisburser{}, period, zap.NewNop(),
		faucet.WithClock(func() time.Time { return now }))

	assert.Equal(t, period, gate.Remaining(now))
	assert.Equal(t, period-time.Hour, gate.Remaining(now.Add(-time.Hour)))
	assert.Zero(t, gate.Remaining(now.Add(-period)))
	assert.Negative(t, int64(gate.Remaining(now.Add(-period-time.Minute))))
}

func TestRequestTokensInvalidAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
	}{
		{name: "empty", address: ""},
		{name: "not hex", address: "0xINVALID"},
		{name: "short", address: "0x1234"},
		{name: "bad checksum", address: "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := new(mockVerifier)
			store := new(mockStore)
			engine := &stubDisburser{}
			gate := faucet.NewGate(verifier, store, engine, period, zap.NewNop())

			req := validRequest()
			req.Address = tt.address
			_, err := gate.RequestTokens(context.Background(), req)
			requireKind(t, err, faucet.KindInvalidAddress)

			verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "GetLastClaim", mock.Anything, mock.Anything)
			assert.Empty(t, engine.calls)
		})
	}
}

func TestRequestTokensChallenge(t *testing.T) {
	tests := []struct {
		name      string
		question  string
		answer    string
		verdict   bool
		verifyErr error
		callsAI   bool
		want      faucet.Kind
	}{
		{name: "empty answer", question: "What is 2 + 2?", answer: "  ", want: faucet.KindChallengeFailed},
		{name: "empty question", question: "", answer: "4", want: faucet.KindChallengeFailed},
		{name: "wrong answer", question: "What is 2 + 2?", answer: "5", verdict: false, callsAI: true, want: faucet.KindChallengeFailed},
		{name: "verifier unavailable", question: "What is 2 + 2?", answer: "4", verifyErr: fmt.Errorf("%w: timeout", captcha.ErrUpstreamUnavailable), callsAI: true, want: faucet.KindUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := new(mockVerifier)
			if tt.callsAI {
				verifier.On("Verify", mock.Anything, tt.question, tt.answer).Return(tt.verdict, tt.verifyErr)
			}
			store := new(mockStore)
			engine := &stubDisburser{}
			gate := faucet.NewGate(verifier, store, engine, period, zap.NewNop())

			_, err := gate.RequestTokens(context.Background(), faucet.Request{
				Address:  address,
				Question: tt.question,
				Answer:   tt.answer,
			})
			requireKind(t, err, tt.want)

			verifier.AssertExpectations(t)
			store.AssertNotCalled(t, "GetLastClaim", mock.Anything, mock.Anything)
			assert.Empty(t, engine.calls)
		})
	}
}

func TestRequestTokensStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	store, err := cache.NewRedisClient(fmt.Sprintf("redis://%s", mr.Addr()), 0)
	require.NoError(t, err)
	defer store.Close()
	mr.Close()

	engine := &stubDisburser{}
	gate := faucet.NewGate(acceptAll(), store, engine, period, zap.NewNop())

	_, err = gate.RequestTokens(context.Background(), validRequest())
	requireKind(t, err, faucet.KindStoreUnavailable)
	assert.ErrorIs(t, err, cache.ErrStoreUnavailable)
	assert.Empty(t, engine.calls)
}

func TestRequestTokensDisburseFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       faucet.Kind
		wantTxHash string
	}{
		{name: "insufficient funds", err: chain.ErrInsufficientFunds, want: faucet.KindInsufficientFunds},
		{name: "rpc down", err: fmt.Errorf("%w: dial tcp", chain.ErrUpstreamUnavailable), want: faucet.KindUpstreamUnavailable},
		{name: "submission rejected", err: &chain.TransferError{Err: errors.New("nonce too low")}, want: faucet.KindTransferFailed},
		{name: "confirmation timeout", err: &chain.TransferError{TxHash: txHash, Err: context.DeadlineExceeded}, want: faucet.KindTransferFailed, wantTxHash: txHash},
		{name: "unclassified", err: errors.New("boom"), want: faucet.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newRedisStore(t)
			gate := faucet.NewGate(acceptAll(), store, &stubDisburser{err: tt.err}, period, zap.NewNop())

			_, err := gate.RequestTokens(context.Background(), validRequest())
			ferr := requireKind(t, err, tt.want)
			assert.Equal(t, tt.wantTxHash, ferr.TxHash)

			_, found, err := store.GetLastClaim(context.Background(), utils.NormalizeEVMAddress(address))
			require.NoError(t, err)
			assert.False(t, found, "no cooldown after a failed disbursement")
		})
	}
}

func TestRequestTokensRecordFailureStillSucceeds(t *testing.T) {
	store := new(mockStore)
	store.On("GetLastClaim", mock.Anything, utils.NormalizeEVMAddress(address)).Return(time.Time{}, false, nil)
	store.On("SetLastClaim", mock.Anything, utils.NormalizeEVMAddress(address), mock.Anything, period).
		Return(cache.ErrStoreUnavailable)
	gate := faucet.NewGate(acceptAll(), store, &stubDisburser{}, period, zap.NewNop())

	result, err := gate.RequestTokens(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, txHash, result.TxHash)
	store.AssertExpectations(t)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "on_cooldown", faucet.KindOnCooldown.String())
	assert.Equal(t, "transfer_failed", faucet.KindTransferFailed.String())
	assert.Equal(t, "kind(42)", faucet.Kind(42).String())
}
