package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esvchat/bible-chat/backend/internal/config"
	"github.com/esvchat/bible-chat/backend/internal/model/chat"
	"github.com/esvchat/bible-chat/backend/internal/model/persona"
)

type geminiRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

func TestGeminiClientSendsHistoryInOrder(t *testing.T) {
	var captured geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Moses led Israel out of Egypt."}]}}]}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	client, err := NewGeminiClient(ctx, config.AIConfig{GeminiAPIKey: "test-key", GeminiBaseURL: srv.URL})
	require.NoError(t, err)
	client = client.WithModel("models/gemini-1.5-flash")

	p := persona.ESV()
	reply, err := client.Generate(ctx, BuildHistory(p, nil), p.GuidedQuery("Who was Moses?"))
	require.NoError(t, err)
	assert.Equal(t, "Moses led Israel out of Egypt.", reply)

	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, p.Instruction, captured.Contents[0].Parts[0].Text)
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, p.Acknowledgement, captured.Contents[1].Parts[0].Text)
	assert.Equal(t, "user", captured.Contents[2].Role)
	assert.Equal(t, "Regarding the ESV Bible, Who was Moses?", captured.Contents[2].Parts[0].Text)
}

func TestGeminiClientWithoutModel(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), config.AIConfig{GeminiAPIKey: "test-key"})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestToGeminiContentsMapsRoles(t *testing.T) {
	contents := toGeminiContents([]chat.Turn{chat.UserTurn("q"), chat.ModelTurn("a")}, "next")

	require.Len(t, contents, 3)
	assert.Equal(t, "user", string(contents[0].Role))
	assert.Equal(t, "model", string(contents[1].Role))
	assert.Equal(t, "next", contents[2].Parts[0].Text)
}
