package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Giri-Aayush/fitochain-faucet/pkg/cli"
	"github.com/Giri-Aayush/fitochain-faucet/pkg/cli/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Get faucet information",
	Long: `Show the network, amount per claim, cooldown period and the faucet's
remaining balance.

Example:
  fitochain-faucet info
  fitochain-faucet info --api-url https://faucet.fitochain.io`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	if verbose && !jsonOut {
		ui.PrintInfo(fmt.Sprintf("Querying %s", apiURL))
	}

	resp, err := cli.NewAPIClient(apiURL).GetInfo()
	if err != nil {
		return fmt.Errorf("failed to get info: %w", err)
	}

	if jsonOut {
		jsonBytes, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(jsonBytes))
		return nil
	}

	ui.PrintBanner()
	ui.PrintInfoResponse(resp)
	return nil
}
