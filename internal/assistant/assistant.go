// Package assistant wraps the developer helpers built on the AI collaborator:
// transaction explanations, contract reviews and a Fitochain chat.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Giri-Aayush/fitochain-faucet/internal/ai"
	"github.com/Giri-Aayush/fitochain-faucet/pkg/utils"
)

// MinContractLength is the shortest contract source accepted for analysis
const MinContractLength = 20

var (
	// ErrInvalidInput means the request was rejected before calling the model
	ErrInvalidInput = errors.New("assistant: invalid input")
	// ErrUpstreamUnavailable means the model call failed
	ErrUpstreamUnavailable = errors.New("assistant: upstream unavailable")
)

const explainTemplate = `As a blockchain expert, explain the following transaction hash in simple, easy-to-understand terms.
You don't have real-time access to the blockchain, so base your explanation on the typical structure and purpose of a transaction.

Explain what this hash represents and break down the common components of a transaction it might point to, such as:
- Sender (From)
- Receiver (To)
- Value / Amount
- Gas Fees / Transaction Cost
- Contract Interaction (if applicable)

Keep the language clear and accessible for someone new to blockchain. Use markdown for formatting.

Transaction Hash: %s`

const auditorInstruction = `You are an expert smart contract security auditor and code reviewer specializing in Solidity.
Your task is to analyze the provided smart contract code.

Provide your analysis in three sections using markdown:

### 1. Overall Summary
Briefly describe the contract's main purpose and functionality.

### 2. Security Analysis
Identify potential vulnerabilities (e.g., reentrancy, integer overflow/underflow, access control issues).
For each finding, explain the risk and suggest a mitigation. If no major issues are found, state that.

### 3. Code Quality & Optimizations
Suggest improvements for gas efficiency, code clarity, and adherence to best practices.`

const chatInstruction = `You are a helpful and friendly AI assistant for Fitochain, a fictional blockchain platform.
Your primary goal is to assist developers by answering their questions about building on Fitochain.
Assume Fitochain is similar to Ethereum, using Solidity for smart contracts and a compatible JSON-RPC API.
Answer questions clearly and provide code examples in markdown when helpful.
If you don't know an answer, say so honestly. Do not make up information about Fitochain-specific tools or libraries that don't exist.
Stick to general blockchain development advice in the context of a Fitochain query.`

// Assistant answers developer questions through a Generator
type Assistant struct {
	generator ai.Generator
}

// New creates an assistant
func New(generator ai.Generator) *Assistant {
	return &Assistant{generator: generator}
}

// ExplainTransaction describes what a transaction hash typically points to
func (a *Assistant) ExplainTransaction(ctx context.Context, txHash string) (string, error) {
	txHash = strings.TrimSpace(txHash)
	if err := utils.ValidateTxHash(txHash); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return a.generate(ctx, ai.Request{Prompt: fmt.Sprintf(explainTemplate, txHash)})
}

// AnalyzeContract reviews Solidity source for purpose, vulnerabilities and quality
func (a *Assistant) AnalyzeContract(ctx context.Context, code string) (string, error) {
	if len(code) < MinContractLength {
		return "", fmt.Errorf("%w: contract code must be at least %d characters", ErrInvalidInput, MinContractLength)
	}

	return a.generate(ctx, ai.Request{
		SystemInstruction: auditorInstruction,
		Prompt:            code,
	})
}

// Chat continues a conversation. history holds prior turns, oldest first.
func (a *Assistant) Chat(ctx context.Context, message string, history []ai.Message) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	for i, m := range history {
		if m.Role != ai.RoleUser && m.Role != ai.RoleModel {
			return "", fmt.Errorf("%w: history[%d] has unknown role %q", ErrInvalidInput, i, m.Role)
		}
	}

	return a.generate(ctx, ai.Request{
		SystemInstruction: chatInstruction,
		Prompt:            message,
		History:           history,
	})
}

func (a *Assistant) generate(ctx context.Context, req ai.Request) (string, error) {
	text, err := a.generator.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return text, nil
}
