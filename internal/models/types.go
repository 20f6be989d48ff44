package models

import "time"

// FaucetRequest represents a request for tokens from the faucet
type FaucetRequest struct {
	Address  string `json:"address"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	// UserAnswer is accepted for older web clients
	UserAnswer string `json:"userAnswer,omitempty"`
}

// GetAnswer returns Answer, falling back to UserAnswer
func (r FaucetRequest) GetAnswer() string {
	if r.Answer != "" {
		return r.Answer
	}
	return r.UserAnswer
}

// FaucetResponse represents the successful response from a faucet request
type FaucetResponse struct {
	TxHash      string `json:"txHash"`
	Amount      string `json:"amount"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Message     string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
	// CooldownRemaining is in milliseconds
	CooldownRemaining *int64 `json:"cooldownRemaining,omitempty"`
	TxHash            string `json:"txHash,omitempty"`
}

// CaptchaResponse carries an issued question
type CaptchaResponse struct {
	Question string `json:"question"`
}

// StatusResponse represents the cooldown status of an address
type StatusResponse struct {
	Address         string     `json:"address"`
	CanRequest      bool       `json:"canRequest"`
	LastRequest     *time.Time `json:"lastRequest,omitempty"`
	NextRequestTime *time.Time `json:"nextRequestTime,omitempty"`
	// CooldownRemaining is in milliseconds
	CooldownRemaining int64 `json:"cooldownRemaining"`
}

// InfoResponse represents information about the faucet
type InfoResponse struct {
	Network       string  `json:"network"`
	TokenSymbol   string  `json:"tokenSymbol"`
	Amount        string  `json:"amount"`
	CooldownHours float64 `json:"cooldownHours"`
	FaucetBalance string  `json:"faucetBalance"`
	FaucetAddress string  `json:"faucetAddress"`
}

// HealthResponse represents the health status of the API
type HealthResponse struct {
	Status    string `json:"status"`
	Wallet    string `json:"wallet,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ExplainTxRequest asks for a plain-language explanation of a transaction
type ExplainTxRequest struct {
	TxHash string `json:"txHash" validate:"required,txhash"`
}

// ExplainTxResponse carries the explanation
type ExplainTxResponse struct {
	Explanation string `json:"explanation"`
}

// AnalyzeContractRequest carries Solidity source for review
type AnalyzeContractRequest struct {
	Code string `json:"code" validate:"required,min=20"`
}

// AnalyzeContractResponse carries the review
type AnalyzeContractResponse struct {
	Analysis string `json:"analysis"`
}

// ChatPart is a text fragment of a chat turn
type ChatPart struct {
	Text string `json:"text"`
}

// ChatMessage is one prior chat turn
type ChatMessage struct {
	Role  string     `json:"role" validate:"required,oneof=user model"`
	Parts []ChatPart `json:"parts"`
}

// ChatRequest continues a conversation with the developer assistant
type ChatRequest struct {
	Message string        `json:"message" validate:"required"`
	History []ChatMessage `json:"history" validate:"required,dive"`
}

// ChatResponse carries the assistant reply
type ChatResponse struct {
	Response string `json:"response"`
}
