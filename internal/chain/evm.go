package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Giri-Aayush/fitochain-faucet/pkg/utils"
)

// transferGas is the intrinsic gas of a plain value transfer
const transferGas = 21000

// EthBackend is the subset of ethclient.Client used by EVMClient
type EthBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// EVMClient handles native-asset transfers on an EVM chain
type EVMClient struct {
	backend      EthBackend
	key          *ecdsa.PrivateKey
	from         common.Address
	chainID      *big.Int
	pollInterval time.Duration

	// nonceMu guards nextNonce, the nonce after the last broadcast transaction
	nonceMu   sync.Mutex
	nextNonce uint64
}

var _ Backend = (*EVMClient)(nil)

// NewEVMClient dials the RPC endpoint and loads the faucet key
func NewEVMClient(ctx context.Context, rpcURL, privateKey string) (*EVMClient, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc: %w", err)
	}
	return NewEVMClientWithBackend(ctx, client, privateKey)
}

// NewEVMClientWithBackend builds a client on an existing backend
func NewEVMClientWithBackend(ctx context.Context, backend EthBackend, privateKey string) (*EVMClient, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key format")
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	return &EVMClient{
		backend:      backend,
		key:          key,
		from:         crypto.PubkeyToAddress(key.PublicKey),
		chainID:      chainID,
		pollInterval: 2 * time.Second,
	}, nil
}

// Address returns the checksummed faucet address
func (c *EVMClient) Address() string {
	return c.from.Hex()
}

// ChainID returns the id reported by the node at startup
func (c *EVMClient) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// ValidateAddress checks the 0x + 40 hex format and mixed-case checksum
func (c *EVMClient) ValidateAddress(address string) error {
	return utils.ValidateEVMAddress(address)
}

// NormalizeAddress lower-cases the address
func (c *EVMClient) NormalizeAddress(address string) string {
	return utils.NormalizeEVMAddress(address)
}

// Balance returns the faucet balance at the latest block
func (c *EVMClient) Balance(ctx context.Context) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, c.from, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Submit signs and broadcasts a value transfer
func (c *EVMClient) Submit(ctx context.Context, to string, amount *big.Int) (string, error) {
	recipient := common.HexToAddress(to)

	c.nonceMu.Lock()
	defer c.nonceMu.Unlock()

	nonce, err := c.backend.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}
	// The node's pending nonce can lag a just-broadcast transaction
	if nonce < c.nextNonce {
		nonce = c.nextNonce
	}

	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get head: %w", err)
	}

	var txData types.TxData
	if head.BaseFee != nil {
		tip, err := c.backend.SuggestGasTipCap(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to get gas tip: %w", err)
		}
		// feeCap = 2*baseFee + tip
		feeCap := new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tip)
		txData = &types.DynamicFeeTx{
			ChainID:   c.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       transferGas,
			To:        &recipient,
			Value:     amount,
		}
	} else {
		gasPrice, err := c.backend.SuggestGasPrice(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to get gas price: %w", err)
		}
		txData = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      transferGas,
			To:       &recipient,
			Value:    amount,
		}
	}

	tx, err := types.SignNewTx(c.key, types.LatestSignerForChainID(c.chainID), txData)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.backend.SendTransaction(ctx, tx); err != nil {
		c.nextNonce = 0
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	c.nextNonce = nonce + 1

	return tx.Hash().Hex(), nil
}

// ResetNonce drops the local nonce so the next Submit uses the node's pending
// nonce. Called when a transfer was not confirmed and may have been evicted.
func (c *EVMClient) ResetNonce() {
	c.nonceMu.Lock()
	c.nextNonce = 0
	c.nonceMu.Unlock()
}

// WaitConfirmed polls for the receipt until the transaction is mined
func (c *EVMClient) WaitConfirmed(ctx context.Context, txHash string) error {
	hash := common.HexToHash(txHash)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			if receipt.Status != types.ReceiptStatusSuccessful {
				return fmt.Errorf("transaction reverted in block %s", receipt.BlockNumber)
			}
			return nil
		case err != nil && !errors.Is(err, ethereum.NotFound):
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("waiting for receipt: %w (last rpc error: %v)", ctx.Err(), lastErr)
			}
			return fmt.Errorf("waiting for receipt: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
