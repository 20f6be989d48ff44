package cli

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Giri-Aayush/fitochain-faucet/internal/models"
)

// APIError is a non-2xx answer from the faucet API
type APIError struct {
	StatusCode int
	Message    string
	// CooldownRemaining is set when the address is on cooldown
	CooldownRemaining time.Duration
	TxHash            string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

// APIClient handles communication with the faucet API
type APIClient struct {
	baseURL    string
	client     *resty.Client
	maxRetries int
	retryDelay time.Duration
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	client := resty.New()
	client.SetTimeout(5 * time.Minute) // requests block until the transfer confirms
	client.SetHeader("Content-Type", "application/json")

	return &APIClient{
		baseURL:    baseURL,
		client:     client,
		maxRetries: 3,
		retryDelay: 30 * time.Second,
	}
}

func apiError(resp *resty.Response, errResponse *models.ErrorResponse) error {
	e := &APIError{
		StatusCode: resp.StatusCode(),
		Message:    errResponse.Message,
		TxHash:     errResponse.TxHash,
	}
	if errResponse.CooldownRemaining != nil {
		e.CooldownRemaining = time.Duration(*errResponse.CooldownRemaining) * time.Millisecond
	}
	return e
}

// GetCaptchaQuestion fetches a new question, retrying while the server wakes up
func (c *APIClient) GetCaptchaQuestion() (*models.CaptchaResponse, error) {
	var response models.CaptchaResponse
	var errResponse models.ErrorResponse

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, err := c.client.R().
			SetResult(&response).
			SetError(&errResponse).
			Get(fmt.Sprintf("%s/api/captcha-question", c.baseURL))

		if err != nil {
			return nil, fmt.Errorf("failed to get question: %w", err)
		}

		// Hosted instances answer 502 while cold starting
		if resp.StatusCode() == 502 {
			if attempt < c.maxRetries {
				fmt.Printf("\n⏳ Server is waking up... (attempt %d/%d, waiting %ds)\n", attempt, c.maxRetries, int(c.retryDelay.Seconds()))
				time.Sleep(c.retryDelay)
				continue
			}
			return nil, fmt.Errorf("server is still starting up after %d attempts. Please try again in a moment", c.maxRetries)
		}

		if resp.IsError() {
			return nil, apiError(resp, &errResponse)
		}

		return &response, nil
	}

	return nil, fmt.Errorf("max retries exceeded")
}

// RequestTokens requests tokens from the faucet
func (c *APIClient) RequestTokens(req models.FaucetRequest) (*models.FaucetResponse, error) {
	var response models.FaucetResponse
	var errResponse models.ErrorResponse

	resp, err := c.client.R().
		SetBody(req).
		SetResult(&response).
		SetError(&errResponse).
		Post(fmt.Sprintf("%s/api/request-tokens", c.baseURL))

	if err != nil {
		return nil, fmt.Errorf("failed to request tokens: %w", err)
	}

	if resp.IsError() {
		return nil, apiError(resp, &errResponse)
	}

	return &response, nil
}

// GetStatus checks the status of an address
func (c *APIClient) GetStatus(address string) (*models.StatusResponse, error) {
	var response models.StatusResponse
	var errResponse models.ErrorResponse

	resp, err := c.client.R().
		SetResult(&response).
		SetError(&errResponse).
		Get(fmt.Sprintf("%s/api/status/%s", c.baseURL, address))

	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	if resp.IsError() {
		return nil, apiError(resp, &errResponse)
	}

	return &response, nil
}

// GetInfo gets information about the faucet
func (c *APIClient) GetInfo() (*models.InfoResponse, error) {
	var response models.InfoResponse
	var errResponse models.ErrorResponse

	resp, err := c.client.R().
		SetResult(&response).
		SetError(&errResponse).
		Get(fmt.Sprintf("%s/api/info", c.baseURL))

	if err != nil {
		return nil, fmt.Errorf("failed to get info: %w", err)
	}

	if resp.IsError() {
		return nil, apiError(resp, &errResponse)
	}

	return &response, nil
}

// ExplainTx asks the assistant to explain a transaction hash
func (c *APIClient) ExplainTx(txHash string) (*models.ExplainTxResponse, error) {
	var response models.ExplainTxResponse
	var errResponse models.ErrorResponse

	resp, err := c.client.R().
		SetBody(models.ExplainTxRequest{TxHash: txHash}).
		SetResult(&response).
		SetError(&errResponse).
		Post(fmt.Sprintf("%s/api/explain-tx", c.baseURL))

	if err != nil {
		return nil, fmt.Errorf("failed to explain transaction: %w", err)
	}

	if resp.IsError() {
		return nil, apiError(resp, &errResponse)
	}

	return &response, nil
}
