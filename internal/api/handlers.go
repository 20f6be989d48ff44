package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Giri-Aayush/fitochain-faucet/internal/ai"
	"github.com/Giri-Aayush/fitochain-faucet/internal/assistant"
	"github.com/Giri-Aayush/fitochain-faucet/internal/cache"
	"github.com/Giri-Aayush/fitochain-faucet/internal/captcha"
	"github.com/Giri-Aayush/fitochain-faucet/internal/chain"
	"github.com/Giri-Aayush/fitochain-faucet/internal/config"
	"github.com/Giri-Aayush/fitochain-faucet/internal/faucet"
	"github.com/Giri-Aayush/fitochain-faucet/internal/metrics"
	"github.com/Giri-Aayush/fitochain-faucet/internal/models"
	"github.com/Giri-Aayush/fitochain-faucet/pkg/utils"
)

// Handler contains dependencies for API handlers
type Handler struct {
	config    *config.Config
	logger    *zap.Logger
	redis     *cache.RedisClient
	gate      *faucet.Gate
	engine    *chain.Engine
	issuer    *captcha.Issuer
	assistant *assistant.Assistant
	metrics   *metrics.Metrics
	validate  *validator.Validate
}

// NewHandler creates a new API handler
func NewHandler(
	cfg *config.Config,
	logger *zap.Logger,
	redis *cache.RedisClient,
	gate *faucet.Gate,
	engine *chain.Engine,
	issuer *captcha.Issuer,
	asst *assistant.Assistant,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		config:    cfg,
		logger:    logger,
		redis:     redis,
		gate:      gate,
		engine:    engine,
		issuer:    issuer,
		assistant: asst,
		metrics:   m,
		validate:  newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("txhash", func(fl validator.FieldLevel) bool {
		return utils.ValidateTxHash(fl.Field().String()) == nil
	})
	return v
}

// statusFor maps a failure kind to its HTTP status
func statusFor(kind faucet.Kind) int {
	switch kind {
	case faucet.KindInvalidAddress, faucet.KindChallengeFailed:
		return fiber.StatusBadRequest
	case faucet.KindOnCooldown:
		return fiber.StatusTooManyRequests
	case faucet.KindInsufficientFunds, faucet.KindStoreUnavailable,
		faucet.KindUpstreamUnavailable, faucet.KindServiceUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// GetCaptchaQuestion issues a new CAPTCHA question
func (h *Handler) GetCaptchaQuestion(c *fiber.Ctx) error {
	ctx := c.UserContext()

	// Check challenge rate limit for this IP
	ip := c.IP()
	canRequest, err := h.redis.CheckChallengeRateLimit(ctx, ip)
	if err != nil {
		h.logger.Error("Failed to check challenge rate limit", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Message: "Failed to check rate limit",
		})
	}
	if !canRequest {
		return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
			Message: "Too many CAPTCHA requests. Please try again later.",
		})
	}

	challenge, err := h.issuer.Issue(ctx)
	if err != nil {
		h.logger.Error("Failed to generate CAPTCHA question", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Message: "Could not generate a CAPTCHA question. Please try again.",
		})
	}

	if err := h.redis.IncrementChallengeRateLimit(ctx, ip); err != nil {
		h.logger.Error("Failed to increment challenge rate limit", zap.Error(err))
	}
	h.metrics.IncChallenges()

	return c.JSON(models.CaptchaResponse{Question: challenge.Question})
}

// RequestTokens handles faucet requests
func (h *Handler) RequestTokens(c *fiber.Ctx) error {
	var req models.FaucetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Invalid request body",
		})
	}

	result, err := h.gate.RequestTokens(c.UserContext(), faucet.Request{
		Address:  req.Address,
		Question: req.Question,
		Answer:   req.GetAnswer(),
	})
	if err != nil {
		return h.faucetError(c, err, req.Address)
	}

	h.logger.Info("Tokens sent successfully",
		zap.String("tx_hash", result.TxHash),
		zap.String("recipient", result.Address),
		zap.String("ip", c.IP()),
		zap.String("request_id", requestID(c)),
	)

	return c.JSON(models.FaucetResponse{
		TxHash:      result.TxHash,
		Amount:      h.config.SendAmount,
		ExplorerURL: h.config.GetExplorerURL(result.TxHash),
		Message:     fmt.Sprintf("Successfully sent %s %s to %s", h.config.SendAmount, h.config.TokenSymbol, result.Address),
	})
}

func (h *Handler) faucetError(c *fiber.Ctx, err error, address string) error {
	var ferr *faucet.Error
	if !errors.As(err, &ferr) {
		ferr = &faucet.Error{Kind: faucet.KindInternal, Message: "An unexpected error occurred. Please try again later."}
	}

	status := statusFor(ferr.Kind)
	fields := []zap.Field{
		zap.String("kind", ferr.Kind.String()),
		zap.String("address", address),
		zap.String("ip", c.IP()),
		zap.String("request_id", requestID(c)),
		zap.Error(err),
	}
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("Faucet request failed", fields...)
	} else {
		h.logger.Info("Faucet request rejected", fields...)
	}

	resp := models.ErrorResponse{Message: ferr.Message, TxHash: ferr.TxHash}
	if ferr.Kind == faucet.KindOnCooldown {
		remaining := ferr.CooldownRemaining.Milliseconds()
		resp.CooldownRemaining = &remaining
	}
	return c.Status(status).JSON(resp)
}

// GetStatus returns the cooldown status of an address
func (h *Handler) GetStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()

	address := c.Params("address")

	// Validate address
	if err := h.engine.ValidateAddress(address); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: fmt.Sprintf("Invalid address: %s", err.Error()),
		})
	}
	key := h.engine.NormalizeAddress(address)

	lastClaim, found, err := h.redis.GetLastClaim(ctx, key)
	if err != nil {
		h.logger.Error("Failed to read cooldown", zap.Error(err), zap.String("address", key))
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Message: "Failed to check status",
		})
	}

	response := models.StatusResponse{
		Address:    key,
		CanRequest: true,
	}
	if found {
		next := lastClaim.Add(h.gate.Period())
		response.LastRequest = &lastClaim
		if remaining := h.gate.Remaining(lastClaim); remaining > 0 {
			response.CanRequest = false
			response.NextRequestTime = &next
			response.CooldownRemaining = remaining.Milliseconds()
		}
	}

	return c.JSON(response)
}

// GetInfo returns information about the faucet
func (h *Handler) GetInfo(c *fiber.Ctx) error {
	balance, err := h.engine.Balance(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to get faucet balance", zap.Error(err))
		balance = nil
	}

	return c.JSON(models.InfoResponse{
		Network:       h.config.Network,
		TokenSymbol:   h.config.TokenSymbol,
		Amount:        h.config.SendAmount,
		CooldownHours: h.config.CooldownPeriod.Hours(),
		FaucetBalance: utils.FormatAmount(balance, 4),
		FaucetAddress: h.engine.FaucetAddress(),
	})
}

// Health reports that the server is configured and which wallet it pays from
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.redis.Ping(c.UserContext()); err != nil {
		h.logger.Error("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.HealthResponse{
			Status:    "error",
			Message:   "Cooldown store unreachable",
			Timestamp: time.Now().UnixMilli(),
		})
	}

	return c.JSON(models.HealthResponse{
		Status:    "ok",
		Wallet:    h.engine.FaucetAddress(),
		Timestamp: time.Now().UnixMilli(),
	})
}

// ExplainTx explains a transaction hash in plain language
func (h *Handler) ExplainTx(c *fiber.Ctx) error {
	var req models.ExplainTxRequest
	if err := h.parseAndValidate(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Invalid transaction hash provided",
		})
	}

	explanation, err := h.assistant.ExplainTransaction(c.UserContext(), req.TxHash)
	if err != nil {
		return h.assistantError(c, err, "Failed to generate explanation from AI service.")
	}
	return c.JSON(models.ExplainTxResponse{Explanation: explanation})
}

// AnalyzeContract reviews smart contract source
func (h *Handler) AnalyzeContract(c *fiber.Ctx) error {
	var req models.AnalyzeContractRequest
	if err := h.parseAndValidate(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Valid smart contract code must be provided.",
		})
	}

	analysis, err := h.assistant.AnalyzeContract(c.UserContext(), req.Code)
	if err != nil {
		return h.assistantError(c, err, "Failed to generate analysis from AI service.")
	}
	return c.JSON(models.AnalyzeContractResponse{Analysis: analysis})
}

// Chat answers a developer question given the prior conversation
func (h *Handler) Chat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := h.parseAndValidate(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "A valid message and history array are required.",
		})
	}

	history := make([]ai.Message, 0, len(req.History))
	for _, m := range req.History {
		var text string
		for _, p := range m.Parts {
			text += p.Text
		}
		history = append(history, ai.Message{Role: m.Role, Text: text})
	}

	reply, err := h.assistant.Chat(c.UserContext(), req.Message, history)
	if err != nil {
		return h.assistantError(c, err, "Failed to get response from AI chat service.")
	}
	return c.JSON(models.ChatResponse{Response: reply})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

func (h *Handler) parseAndValidate(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return err
	}
	return h.validate.Struct(out)
}

func (h *Handler) assistantError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, assistant.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Message: "Invalid request."})
	}
	h.logger.Error("Assistant request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Message: message})
}
