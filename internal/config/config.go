package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Giri-Aayush/fitochain-faucet/pkg/utils"
)

// Supported chain backends
const (
	ChainEVM      = "evm"
	ChainStarknet = "starknet"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port     string
	LogLevel string
	Network  string

	// Chain
	ChainKind           string
	FaucetPrivateKey    string
	FaucetAddress       string // required for starknet, derived from the key on EVM
	ChainRPCURL         string
	STRKTokenAddress    string
	ExplorerURL         string
	ConfirmationTimeout time.Duration

	// Redis
	RedisURL string

	// AI
	APIKey      string
	GeminiModel string

	// Faucet settings
	TokenSymbol          string
	SendAmount           string
	CooldownPeriod       time.Duration
	MaxChallengesPerHour int // per IP, 0 disables
}

// Load loads configuration from environment variables. The returned Config is
// never nil so callers can still report Network/Port when validation fails.
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	config := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Network:  getEnv("NETWORK", "fitochain-testnet"),

		ChainKind:           strings.ToLower(getEnv("CHAIN_KIND", ChainEVM)),
		FaucetPrivateKey:    getEnv("FAUCET_PRIVATE_KEY", ""),
		FaucetAddress:       getEnv("FAUCET_ADDRESS", ""),
		ChainRPCURL:         getEnv("CHAIN_RPC_URL", getEnv("TESTNET_RPC_URL", "")),
		STRKTokenAddress:    getEnv("STRK_TOKEN_ADDRESS", "0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d"),
		ExplorerURL:         strings.TrimRight(getEnv("EXPLORER_URL", ""), "/"),
		ConfirmationTimeout: getEnvAsDuration("CONFIRMATION_TIMEOUT", 2*time.Minute),

		RedisURL: getEnv("REDIS_URL", ""),

		APIKey:      getEnv("API_KEY", ""),
		GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		TokenSymbol:          getEnv("TOKEN_SYMBOL", "FITO"),
		SendAmount:           getEnv("FAUCET_SEND_AMOUNT", ""),
		CooldownPeriod:       getEnvAsDuration("COOLDOWN_PERIOD", 0),
		MaxChallengesPerHour: getEnvAsInt("MAX_CHALLENGES_PER_HOUR", 30),
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.FaucetPrivateKey == "" {
		return fmt.Errorf("FAUCET_PRIVATE_KEY is required")
	}
	if c.ChainRPCURL == "" {
		return fmt.Errorf("CHAIN_RPC_URL is required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if c.SendAmount == "" {
		return fmt.Errorf("FAUCET_SEND_AMOUNT is required")
	}
	if _, err := utils.ParseAmount(c.SendAmount); err != nil {
		return fmt.Errorf("FAUCET_SEND_AMOUNT: %w", err)
	}
	if c.CooldownPeriod <= 0 {
		return fmt.Errorf("COOLDOWN_PERIOD is required and must be a positive duration (e.g. 24h)")
	}
	if c.ConfirmationTimeout <= 0 {
		return fmt.Errorf("CONFIRMATION_TIMEOUT must be a positive duration")
	}

	switch c.ChainKind {
	case ChainEVM:
	case ChainStarknet:
		if c.FaucetAddress == "" {
			return fmt.Errorf("FAUCET_ADDRESS is required when CHAIN_KIND=starknet")
		}
	default:
		return fmt.Errorf("unsupported CHAIN_KIND %q", c.ChainKind)
	}
	return nil
}

// SendAmountUnits returns the disbursement amount in base units
func (c *Config) SendAmountUnits() *big.Int {
	units, err := utils.ParseAmount(c.SendAmount)
	if err != nil {
		return new(big.Int)
	}
	return units
}

// GetExplorerURL returns the block explorer URL for a transaction, or "" when no explorer is configured
func (c *Config) GetExplorerURL(txHash string) string {
	if c.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", c.ExplorerURL, txHash)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("24h", "90s"). An unparseable value
// yields zero so that Validate reports it instead of silently using a default.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0
	}
	return value
}
