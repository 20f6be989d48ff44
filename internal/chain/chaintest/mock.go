// Package chaintest provides a testify mock of chain.Backend.
package chaintest

import (
	"context"
	"math/big"

	"github.com/stretchr/testify/mock"

	"github.com/Giri-Aayush/fitochain-faucet/internal/chain"
)

// Backend is a mock chain.Backend
type Backend struct {
	mock.Mock
}

var _ chain.Backend = (*Backend)(nil)

func (b *Backend) Address() string {
	return b.Called().String(0)
}

func (b *Backend) ValidateAddress(address string) error {
	return b.Called(address).Error(0)
}

func (b *Backend) NormalizeAddress(address string) string {
	return b.Called(address).String(0)
}

func (b *Backend) Balance(ctx context.Context) (*big.Int, error) {
	args := b.Called(ctx)
	balance, _ := args.Get(0).(*big.Int)
	return balance, args.Error(1)
}

func (b *Backend) Submit(ctx context.Context, to string, amount *big.Int) (string, error) {
	args := b.Called(ctx, to, amount)
	return args.String(0), args.Error(1)
}

func (b *Backend) WaitConfirmed(ctx context.Context, txHash string) error {
	return b.Called(ctx, txHash).Error(0)
}
