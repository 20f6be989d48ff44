package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/account"
	"github.com/NethermindEth/starknet.go/rpc"
	snutils "github.com/NethermindEth/starknet.go/utils"

	"github.com/Giri-Aayush/fitochain-faucet/pkg/utils"
)

// StarknetClient disburses STRK from a Starknet account contract
type StarknetClient struct {
	account      *account.Account
	provider     *rpc.Provider
	address      string
	accAddress   *felt.Felt
	strkAddress  *felt.Felt
	pollInterval time.Duration
	// txStatus defaults to the provider's getTransactionStatus
	txStatus txStatusFunc
}

var _ Backend = (*StarknetClient)(nil)

// NewStarknetClient creates a Starknet faucet client
func NewStarknetClient(ctx context.Context, rpcURL, privateKey, accountAddress, strkTokenAddr string) (*StarknetClient, error) {
	provider, err := rpc.NewProvider(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	privKeyBI, ok := new(big.Int).SetString(privateKey, 0)
	if !ok {
		return nil, fmt.Errorf("invalid private key format")
	}

	ks := account.NewMemKeystore()
	ks.Put(accountAddress, privKeyBI)

	accAddress, err := snutils.HexToFelt(accountAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid account address: %w", err)
	}

	// Cairo 2 account
	accnt, err := account.NewAccount(provider, accAddress, accountAddress, ks, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	strkAddr, err := snutils.HexToFelt(strkTokenAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid STRK token address: %w", err)
	}

	return &StarknetClient{
		account:      accnt,
		provider:     provider,
		address:      utils.NormalizeStarknetAddress(accountAddress),
		accAddress:   accAddress,
		strkAddress:  strkAddr,
		pollInterval: 5 * time.Second,
	}, nil
}

// Address returns the faucet account address
func (sc *StarknetClient) Address() string {
	return sc.address
}

// ValidateAddress checks the Starknet address format
func (sc *StarknetClient) ValidateAddress(address string) error {
	return utils.ValidateStarknetAddress(address)
}

// NormalizeAddress pads and lower-cases the address
func (sc *StarknetClient) NormalizeAddress(address string) string {
	return utils.NormalizeStarknetAddress(address)
}

// Submit invokes the STRK ERC-20 transfer
func (sc *StarknetClient) Submit(ctx context.Context, to string, amount *big.Int) (string, error) {
	recipientFelt, err := snutils.HexToFelt(to)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	low, high := toUint256(amount)

	call := rpc.InvokeFunctionCall{
		ContractAddress: sc.strkAddress,
		FunctionName:    "transfer",
		CallData:        []*felt.Felt{recipientFelt, low, high},
	}

	tx, err := sc.account.BuildAndSendInvokeTxn(ctx, []rpc.InvokeFunctionCall{call}, nil)
	if err != nil {
		return "", fmt.Errorf("transaction failed: %w", err)
	}

	return tx.Hash.String(), nil
}

// Balance calls balanceOf on the STRK contract for the faucet account
func (sc *StarknetClient) Balance(ctx context.Context) (*big.Int, error) {
	result, err := sc.provider.Call(ctx, rpc.FunctionCall{
		ContractAddress:    sc.strkAddress,
		EntryPointSelector: snutils.GetSelectorFromNameFelt("balanceOf"),
		Calldata:           []*felt.Felt{sc.accAddress},
	}, rpc.BlockID{Tag: "latest"})
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	if len(result) < 2 {
		return nil, fmt.Errorf("unexpected balance result length %d", len(result))
	}

	return fromUint256(result[0].BigInt(new(big.Int)), result[1].BigInt(new(big.Int))), nil
}

// Starknet finality and execution statuses
const (
	finalityAcceptedOnL2 = "ACCEPTED_ON_L2"
	finalityAcceptedOnL1 = "ACCEPTED_ON_L1"
	finalityRejected     = "REJECTED"
	executionReverted    = "REVERTED"
)

// txStatusFunc reports the finality and execution status of a transaction
type txStatusFunc func(ctx context.Context, txHash *felt.Felt) (finality, execution string, err error)

func (sc *StarknetClient) providerStatus(ctx context.Context, txHash *felt.Felt) (string, string, error) {
	status, err := sc.provider.TransactionStatus(ctx, txHash)
	if err != nil {
		return "", "", err
	}
	return string(status.FinalityStatus), string(status.ExecutionStatus), nil
}

// WaitConfirmed polls until the transaction is accepted on L2 with a
// successful execution
func (sc *StarknetClient) WaitConfirmed(ctx context.Context, txHash string) error {
	txHashFelt, err := snutils.HexToFelt(txHash)
	if err != nil {
		return fmt.Errorf("invalid tx hash: %w", err)
	}

	status := sc.txStatus
	if status == nil {
		status = sc.providerStatus
	}

	ticker := time.NewTicker(sc.pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		finality, execution, err := status(ctx, txHashFelt)
		switch {
		case err != nil:
			lastErr = err
		case execution == executionReverted:
			return fmt.Errorf("transaction reverted (finality %s)", finality)
		case finality == finalityRejected:
			return fmt.Errorf("transaction rejected")
		case finality == finalityAcceptedOnL2 || finality == finalityAcceptedOnL1:
			return nil
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("waiting for acceptance: %w (last rpc error: %v)", ctx.Err(), lastErr)
			}
			return fmt.Errorf("waiting for acceptance: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

var uint128Mask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// toUint256 splits an amount into Cairo (low, high) 128-bit limbs
func toUint256(amount *big.Int) (low, high *felt.Felt) {
	lo := new(big.Int).And(amount, uint128Mask)
	hi := new(big.Int).Rsh(amount, 128)
	return new(felt.Felt).SetBigInt(lo), new(felt.Felt).SetBigInt(hi)
}

func fromUint256(low, high *big.Int) *big.Int {
	return new(big.Int).Add(low, new(big.Int).Lsh(high, 128))
}
