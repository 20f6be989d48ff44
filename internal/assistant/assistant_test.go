package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Giri-Aayush/fitochain-faucet/internal/ai"
	"github.com/Giri-Aayush/fitochain-faucet/internal/ai/aitest"
)

const validHash = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"

func TestExplainTransaction(t *testing.T) {
	tests := []struct {
		name    string
		txHash  string
		callsAI bool
		aiErr   error
		wantErr error
	}{
		{name: "valid hash", txHash: validHash, callsAI: true},
		{name: "surrounding spaces", txHash: "  " + validHash + "\n", callsAI: true},
		{name: "too short", txHash: "0x1234", wantErr: ErrInvalidInput},
		{name: "missing prefix", txHash: validHash[2:], wantErr: ErrInvalidInput},
		{name: "model failure", txHash: validHash, callsAI: true, aiErr: errors.New("quota"), wantErr: ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(aitest.Generator)
			if tt.callsAI {
				gen.On("Generate", mock.Anything, mock.MatchedBy(func(req ai.Request) bool {
					return strings.HasSuffix(req.Prompt, "Transaction Hash: "+validHash)
				})).Return("It is a transfer.", tt.aiErr)
			}

			got, err := New(gen).ExplainTransaction(context.Background(), tt.txHash)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "It is a transfer.", got)
			}
			gen.AssertExpectations(t)
		})
	}
}

func TestAnalyzeContract(t *testing.T) {
	code := "pragma solidity ^0.8.0; contract A {}"

	gen := new(aitest.Generator)
	gen.On("Generate", mock.Anything, ai.Request{SystemInstruction: auditorInstruction, Prompt: code}).
		Return("### 1. Overall Summary", nil)

	got, err := New(gen).AnalyzeContract(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "### 1. Overall Summary", got)

	_, err = New(gen).AnalyzeContract(context.Background(), "contract A {}")
	assert.ErrorIs(t, err, ErrInvalidInput)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestChat(t *testing.T) {
	history := []ai.Message{
		{Role: ai.RoleUser, Text: "What is Fitochain?"},
		{Role: ai.RoleModel, Text: "An EVM chain."},
	}

	gen := new(aitest.Generator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req ai.Request) bool {
		return req.Prompt == "How do I deploy?" && len(req.History) == 2 && req.SystemInstruction == chatInstruction
	})).Return("Use Hardhat.", nil)

	got, err := New(gen).Chat(context.Background(), "How do I deploy?", history)
	require.NoError(t, err)
	assert.Equal(t, "Use Hardhat.", got)

	_, err = New(gen).Chat(context.Background(), " ", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = New(gen).Chat(context.Background(), "hi", []ai.Message{{Role: "system", Text: "x"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}
