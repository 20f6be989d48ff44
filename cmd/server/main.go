package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Giri-Aayush/fitochain-faucet/internal/ai"
	"github.com/Giri-Aayush/fitochain-faucet/internal/api"
	"github.com/Giri-Aayush/fitochain-faucet/internal/assistant"
	"github.com/Giri-Aayush/fitochain-faucet/internal/cache"
	"github.com/Giri-Aayush/fitochain-faucet/internal/captcha"
	"github.com/Giri-Aayush/fitochain-faucet/internal/chain"
	"github.com/Giri-Aayush/fitochain-faucet/internal/config"
	"github.com/Giri-Aayush/fitochain-faucet/internal/faucet"
	"github.com/Giri-Aayush/fitochain-faucet/internal/metrics"
	"github.com/Giri-Aayush/fitochain-faucet/pkg/utils"
)

func main() {
	// Load configuration
	cfg, cfgErr := config.Load()

	// Initialize logger
	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Fitochain Faucet Server",
		zap.String("network", cfg.Network),
		zap.String("chain", cfg.ChainKind),
		zap.String("port", cfg.Port),
	)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "Fitochain Faucet API",
		DisableStartupMessage: false,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"message": err.Error(),
			})
		},
	})

	ctx := context.Background()

	initErr := cfgErr
	var cleanup func()
	if initErr == nil {
		var handler *api.Handler
		handler, cleanup, initErr = newHandler(ctx, cfg, logger)
		if initErr == nil {
			api.SetupRoutes(app, handler)
		}
	}
	if initErr != nil {
		logger.Error("Faucet is running in unavailable mode", zap.Error(initErr))
		api.SetupUnavailableRoutes(app, initErr)
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info("Server starting", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// newHandler connects every collaborator. On error nothing is left open.
func newHandler(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*api.Handler, func(), error) {
	// Initialize Redis
	logger.Info("Connecting to Redis...")
	redis, err := cache.NewRedisClient(cfg.RedisURL, cfg.MaxChallengesPerHour)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to Redis",
		zap.Int("max_challenges_per_hour", cfg.MaxChallengesPerHour),
	)

	// Initialize AI client
	gemini, err := ai.NewGeminiClient(ctx, cfg.APIKey, cfg.GeminiModel)
	if err != nil {
		redis.Close()
		return nil, nil, err
	}

	cleanup := func() {
		gemini.Close()
		redis.Close()
	}

	// Initialize chain backend
	logger.Info("Initializing chain client...", zap.String("chain", cfg.ChainKind))
	var backend chain.Backend
	switch cfg.ChainKind {
	case config.ChainStarknet:
		backend, err = chain.NewStarknetClient(ctx, cfg.ChainRPCURL, cfg.FaucetPrivateKey, cfg.FaucetAddress, cfg.STRKTokenAddress)
	default:
		backend, err = chain.NewEVMClient(ctx, cfg.ChainRPCURL, cfg.FaucetPrivateKey)
	}
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	logger.Info("Chain client initialized",
		zap.String("faucet_address", backend.Address()),
	)

	m := metrics.New()
	engine := chain.NewEngine(backend, cfg.SendAmountUnits(), cfg.ConfirmationTimeout, logger, m)
	gate := faucet.NewGate(
		captcha.NewVerifier(gemini),
		redis,
		engine,
		cfg.CooldownPeriod,
		logger,
		faucet.WithMetrics(m),
	)

	handler := api.NewHandler(
		cfg,
		logger,
		redis,
		gate,
		engine,
		captcha.NewIssuer(gemini),
		assistant.New(gemini),
		m,
	)
	return handler, cleanup, nil
}
