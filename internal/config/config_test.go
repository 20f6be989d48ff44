package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FAUCET_PRIVATE_KEY", "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	t.Setenv("CHAIN_RPC_URL", "http://localhost:8545")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("API_KEY", "test-key")
	t.Setenv("FAUCET_SEND_AMOUNT", "500")
	t.Setenv("COOLDOWN_PERIOD", "24h")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ChainEVM, cfg.ChainKind)
	assert.Equal(t, 24*time.Hour, cfg.CooldownPeriod)
	assert.Equal(t, 2*time.Minute, cfg.ConfirmationTimeout)
	assert.Equal(t, "FITO", cfg.TokenSymbol)
	assert.Equal(t, "500000000000000000000", cfg.SendAmountUnits().String())
}

func TestLoadRPCAlias(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHAIN_RPC_URL", "")
	t.Setenv("TESTNET_RPC_URL", "http://rpc.fitochain.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://rpc.fitochain.test", cfg.ChainRPCURL)
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		value   string
		wantErr string
	}{
		{name: "private key", unset: "FAUCET_PRIVATE_KEY", wantErr: "FAUCET_PRIVATE_KEY"},
		{name: "rpc url", unset: "CHAIN_RPC_URL", wantErr: "CHAIN_RPC_URL"},
		{name: "redis url", unset: "REDIS_URL", wantErr: "REDIS_URL"},
		{name: "api key", unset: "API_KEY", wantErr: "API_KEY"},
		{name: "amount", unset: "FAUCET_SEND_AMOUNT", wantErr: "FAUCET_SEND_AMOUNT"},
		{name: "bad amount", unset: "FAUCET_SEND_AMOUNT", value: "-5", wantErr: "FAUCET_SEND_AMOUNT"},
		{name: "cooldown", unset: "COOLDOWN_PERIOD", wantErr: "COOLDOWN_PERIOD"},
		{name: "bad cooldown", unset: "COOLDOWN_PERIOD", value: "one day", wantErr: "COOLDOWN_PERIOD"},
		{name: "unknown chain", unset: "CHAIN_KIND", value: "solana", wantErr: "CHAIN_KIND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, tt.value)

			cfg, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotNil(t, cfg)
		})
	}
}

func TestValidateStarknetNeedsAddress(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHAIN_KIND", "starknet")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FAUCET_ADDRESS")

	t.Setenv("FAUCET_ADDRESS", "0x123")
	_, err = Load()
	assert.NoError(t, err)
}

func TestGetExplorerURL(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.GetExplorerURL("0xabc"))

	cfg.ExplorerURL = "https://explorer.fitochain.test"
	assert.Equal(t, "https://explorer.fitochain.test/tx/0xabc", cfg.GetExplorerURL("0xabc"))
}
