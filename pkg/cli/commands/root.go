package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Giri-Aayush/fitochain-faucet/pkg/utils"
)

var (
	apiURL  string
	verbose bool
	jsonOut bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fitochain-faucet",
	Short: "Fitochain Testnet Faucet CLI",
	Long: `A CLI tool to request testnet FITO tokens for Fitochain.

Examples:
  fitochain-faucet request 0xYOUR_ADDRESS     # Answer a question and receive tokens
  fitochain-faucet status 0xYOUR_ADDRESS      # Check cooldown status
  fitochain-faucet info                       # View faucet information
  fitochain-faucet explain 0xTX_HASH          # Explain a transaction

The faucet uses an AI generated CAPTCHA question to prevent abuse.
Each address can claim once per cooldown period.`,
	Version: "1.0.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Faucet API URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(explainCmd)
}

// validateAddress checks 42-character input as an EVM address and anything
// else as a Starknet address
func validateAddress(address string) error {
	if len(address) == 42 {
		return utils.ValidateEVMAddress(address)
	}
	return utils.ValidateStarknetAddress(address)
}
