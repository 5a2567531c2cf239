package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestClassifyErrorQuota(t *testing.T) {
	err := classifyError(providerGemini, &genai.APIError{Code: 429, Message: "quota", Status: "RESOURCE_EXHAUSTED"})
	assert.ErrorIs(t, err, ErrRemoteQuotaExceeded)
	assert.Contains(t, err.Error(), "quota")
}

func TestClassifyErrorQuotaFromMessage(t *testing.T) {
	err := classifyError(providerArk, errors.New("Error code: 429 - TooManyRequests"))
	assert.ErrorIs(t, err, ErrRemoteQuotaExceeded)
}

func TestClassifyErrorTransport(t *testing.T) {
	err := classifyError(providerGemini, errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.Contains(t, err.Error(), "connection refused")

	err = classifyError(providerGemini, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestClassifyErrorKeepsExistingKind(t *testing.T) {
	assert.NoError(t, classifyError(providerGemini, nil))
	assert.Equal(t, ErrRemoteQuotaExceeded, classifyError(providerGemini, ErrRemoteQuotaExceeded))
}
