package commands

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Giri-Aayush/fitochain-faucet/internal/models"
	"github.com/Giri-Aayush/fitochain-faucet/pkg/cli"
	"github.com/Giri-Aayush/fitochain-faucet/pkg/cli/ui"
)

var answerFlag string

var requestCmd = &cobra.Command{
	Use:   "request <ADDRESS>",
	Short: "Request testnet tokens",
	Long: `Request testnet FITO tokens for a Fitochain address.

The faucet asks a short question first. Answer it to prove you are human.
Tokens are only reported as sent once the transfer is confirmed on chain.

Examples:
  fitochain-faucet request 0x5aAe...BeAed

  # Non-interactive, the question is printed to stderr
  fitochain-faucet request 0x5aAe...BeAed --answer 4 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRequest,
}

func init() {
	requestCmd.Flags().StringVar(&answerFlag, "answer", "", "Answer to the CAPTCHA question (skips the prompt)")
}

func runRequest(cmd *cobra.Command, args []string) error {
	address := strings.TrimSpace(args[0])

	// Validate address
	if err := validateAddress(address); err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}

	// Create API client
	client := cli.NewAPIClient(apiURL)

	if !jsonOut {
		ui.PrintBanner()
		ui.PrintInfo(fmt.Sprintf("Requesting tokens for %s", address))
	}

	// Step 1: Get question
	var captchaResp *models.CaptchaResponse
	if !jsonOut {
		s := ui.NewSpinner("Fetching question...")
		s.Start()
		var err error
		captchaResp, err = client.GetCaptchaQuestion()
		s.Stop()
		if err != nil {
			ui.PrintError(fmt.Sprintf("Failed to get question: %v", err))
			return err
		}
	} else {
		var err error
		captchaResp, err = client.GetCaptchaQuestion()
		if err != nil {
			return err
		}
	}

	// Step 2: Answer it
	answer := answerFlag
	if answer == "" {
		var err error
		answer, err = promptAnswer(cmd.InOrStdin(), captchaResp.Question)
		if err != nil {
			return err
		}
	} else if jsonOut {
		fmt.Fprintln(os.Stderr, captchaResp.Question)
	}

	req := models.FaucetRequest{
		Address:  address,
		Question: captchaResp.Question,
		Answer:   answer,
	}

	// Step 3: Request tokens
	var faucetResp *models.FaucetResponse
	if !jsonOut {
		s := ui.NewSpinner("Sending tokens and waiting for confirmation...")
		s.Start()
		var err error
		faucetResp, err = client.RequestTokens(req)
		s.Stop()
		if err != nil {
			var apiErr *cli.APIError
			if errors.As(err, &apiErr) && apiErr.CooldownRemaining > 0 {
				ui.PrintCooldownError(apiErr.CooldownRemaining)
				return err
			}
			ui.PrintError(fmt.Sprintf("Failed to request tokens: %v", err))
			if apiErr != nil && apiErr.TxHash != "" {
				ui.PrintWarning(fmt.Sprintf("Transaction %s may still confirm; check an explorer before retrying.", apiErr.TxHash))
			}
			return err
		}
		ui.PrintSuccess("Transaction confirmed!")
	} else {
		var err error
		faucetResp, err = client.RequestTokens(req)
		if err != nil {
			return err
		}
	}

	// Print response
	if jsonOut {
		jsonBytes, _ := json.MarshalIndent(faucetResp, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		symbol := "FITO"
		if info, err := client.GetInfo(); err == nil && info.TokenSymbol != "" {
			symbol = info.TokenSymbol
		}
		ui.PrintFaucetResponse(faucetResp, symbol)
	}

	return nil
}

// promptAnswer shows the question and reads one line from in
func promptAnswer(in io.Reader, question string) (string, error) {
	ui.PrintQuestion(question)
	fmt.Print("  Your answer: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return "", fmt.Errorf("an answer is required")
	}
	return answer, nil
}
