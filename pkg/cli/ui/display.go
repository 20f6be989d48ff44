package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/Giri-Aayush/fitochain-faucet/internal/models"
)

var (
	// Colors
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()

	// Symbols
	checkMark = green("✓")
	xMark     = red("✗")
	arrow     = cyan("→")
)

// PrintBanner prints the faucet banner
func PrintBanner() {
	banner := `
   ___ _ _            _         _         ___                   _
  | __(_) |_ ___  __ | |_  __ _(_)_ _    | __|_ _ _  _ __ ___ _| |_
  | _|| |  _/ _ \/ _|| ' \/ _' | | ' \   | _/ _' | || / _/ -_)  _|
  |_| |_|\__\___/\__||_||_\__,_|_|_||_|  |_|\__,_|\_,_\__\___|\__|

                          Testnet tokens • Secured by AI CAPTCHA
`
	fmt.Println(cyan(banner))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", checkMark, message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("%s %s\n", xMark, red(message))
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("%s %s\n", arrow, message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("%s %s\n", yellow("!"), yellow(message))
}

// NewSpinner creates a new spinner with a message
func NewSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Color("cyan")
	return s
}

// PrintQuestion shows a CAPTCHA question
func PrintQuestion(question string) {
	fmt.Println()
	fmt.Printf("  %s %s\n", bold("Question:"), question)
	fmt.Println()
}

// PrintFaucetResponse prints a nicely formatted faucet response
func PrintFaucetResponse(resp *models.FaucetResponse, symbol string) {
	fmt.Println()
	fmt.Println(strings.Repeat("━", 50))
	fmt.Printf("  %s  %s %s\n", bold("Amount:"), resp.Amount, symbol)
	fmt.Printf("  %s  %s\n", bold("TX Hash:"), shortenHash(resp.TxHash))
	if resp.ExplorerURL != "" {
		fmt.Println()
		fmt.Printf("  🔗 %s\n", cyan(resp.ExplorerURL))
	}
	fmt.Println(strings.Repeat("━", 50))
	fmt.Println()
	PrintSuccess(resp.Message)
	fmt.Println()
}

// PrintStatusResponse prints a status response
func PrintStatusResponse(resp *models.StatusResponse) {
	fmt.Println()
	fmt.Printf("%s %s\n\n", bold("Address:"), shortenHash(resp.Address))

	if resp.CanRequest {
		PrintSuccess("This address can request tokens now!")
	} else {
		PrintError("Address is in cooldown period")
		fmt.Println()
		if resp.LastRequest != nil {
			fmt.Printf("  Last request:   %s (%s)\n", resp.LastRequest.Local().Format("January 02, 2006 at 3:04 PM"), humanize.Time(*resp.LastRequest))
		}
		if resp.NextRequestTime != nil {
			fmt.Printf("  Next request:   %s\n", resp.NextRequestTime.Local().Format("January 02, 2006 at 3:04 PM"))
		}
		fmt.Printf("  Time remaining: %s\n", formatDuration(time.Duration(resp.CooldownRemaining)*time.Millisecond))
	}
	fmt.Println()
}

// PrintInfoResponse prints an info response
func PrintInfoResponse(resp *models.InfoResponse) {
	fmt.Println()
	fmt.Println(bold("Faucet Information"))
	fmt.Println(strings.Repeat("─", 50))
	fmt.Println()

	fmt.Printf("%s %s\n", bold("Network:"), resp.Network)
	fmt.Printf("%s %s\n", bold("Faucet:"), resp.FaucetAddress)
	fmt.Println()

	fmt.Println(bold("Distribution:"))
	fmt.Printf("  Per request:      %s %s\n", resp.Amount, resp.TokenSymbol)
	fmt.Printf("  Cooldown period:  %s\n", formatDuration(time.Duration(resp.CooldownHours*float64(time.Hour))))
	fmt.Println()

	fmt.Println(bold("Faucet Balance:"))
	fmt.Printf("  %s %s\n", resp.FaucetBalance, resp.TokenSymbol)
	fmt.Println()
}

// PrintCooldownError prints a cooldown error with details
func PrintCooldownError(remaining time.Duration) {
	fmt.Println()
	PrintError("Address is in cooldown period")
	fmt.Println()
	fmt.Printf("  Next request:   %s\n", humanize.Time(time.Now().Add(remaining)))
	fmt.Printf("  Time remaining: %s\n", formatDuration(remaining))
	fmt.Println()
	fmt.Println("Try again later or use --help for more options.")
	fmt.Println()
}

// PrintExplanation prints assistant output as-is
func PrintExplanation(text string) {
	fmt.Println()
	fmt.Println(text)
	fmt.Println()
}

// Helper functions

func shortenHash(hash string) string {
	if len(hash) <= 20 {
		return hash
	}
	return hash[:10] + "..." + hash[len(hash)-8:]
}

func formatDuration(d time.Duration) string {
	hours := d.Hours()
	if hours >= 24 {
		days := int(hours / 24)
		remainingHours := int(hours) % 24
		if remainingHours == 0 {
			return fmt.Sprintf("%d day%s", days, pluralize(days))
		}
		return fmt.Sprintf("%d day%s %d hour%s", days, pluralize(days), remainingHours, pluralize(remainingHours))
	}

	if hours >= 1 {
		h := int(hours)
		minutes := int((hours - float64(h)) * 60)
		if minutes == 0 {
			return fmt.Sprintf("%d hour%s", h, pluralize(h))
		}
		return fmt.Sprintf("%d hour%s %d minute%s", h, pluralize(h), minutes, pluralize(minutes))
	}

	minutes := int(d.Minutes())
	return fmt.Sprintf("%d minute%s", minutes, pluralize(minutes))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
