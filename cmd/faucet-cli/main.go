package main

import "github.com/Giri-Aayush/fitochain-faucet/pkg/cli/commands"

func main() {
	commands.Execute()
}
