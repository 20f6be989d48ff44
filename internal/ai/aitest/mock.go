// Package aitest provides a testify mock of ai.Generator.
package aitest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Giri-Aayush/fitochain-faucet/internal/ai"
)

// Generator is a mock ai.Generator
type Generator struct {
	mock.Mock
}

var _ ai.Generator = (*Generator)(nil)

// Generate records the call and returns the configured text and error
func (g *Generator) Generate(ctx context.Context, req ai.Request) (string, error) {
	args := g.Called(ctx, req)
	return args.String(0), args.Error(1)
}
