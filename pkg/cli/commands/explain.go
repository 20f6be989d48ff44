package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Giri-Aayush/fitochain-faucet/pkg/cli"
	"github.com/Giri-Aayush/fitochain-faucet/pkg/cli/ui"
	"github.com/Giri-Aayush/fitochain-faucet/pkg/utils"
)

var explainCmd = &cobra.Command{
	Use:   "explain <TX_HASH>",
	Short: "Explain a transaction in plain language",
	Long: `Ask the faucet's AI assistant what a transaction hash represents.

Example:
  fitochain-faucet explain 0x88df...944b`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	txHash := args[0]

	if err := utils.ValidateTxHash(txHash); err != nil {
		return fmt.Errorf("invalid transaction hash: %w", err)
	}

	client := cli.NewAPIClient(apiURL)

	if jsonOut {
		resp, err := client.ExplainTx(txHash)
		if err != nil {
			return err
		}
		jsonBytes, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(jsonBytes))
		return nil
	}

	s := ui.NewSpinner("Asking the assistant...")
	s.Start()
	resp, err := client.ExplainTx(txHash)
	s.Stop()
	if err != nil {
		ui.PrintError(fmt.Sprintf("Failed to explain transaction: %v", err))
		return err
	}

	if verbose {
		ui.PrintInfo(fmt.Sprintf("Transaction %s", txHash))
	}
	ui.PrintExplanation(resp.Explanation)
	return nil
}
