package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoSuitableModel means none of the preferred models is deployed for the credential.
var ErrNoSuitableModel = errors.New("no suitable generative model found")

const generateContentAction = "generateContent"

// ModelInfo is the subset of remote model metadata the startup probe needs.
type ModelInfo struct {
	Name             string
	SupportedActions []string
	InputTokenLimit  int
}

// ModelLister enumerates the models deployed for a credential.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// SelectModel walks preferences in order and returns the full name of the
// first deployed model that supports content generation with a positive input
// token limit.
func SelectModel(ctx context.Context, lister ModelLister, preferences []string) (string, error) {
	models, err := lister.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("listing models: %w", err)
	}

	for _, preference := range preferences {
		want := qualifiedModelName(preference)
		if want == "" {
			continue
		}
		for _, m := range models {
			if m.Name == want && supports(m, generateContentAction) && m.InputTokenLimit > 0 {
				return m.Name, nil
			}
		}
	}
	return "", fmt.Errorf("%w among %v", ErrNoSuitableModel, preferences)
}

func qualifiedModelName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "models/") {
		return name
	}
	return "models/" + name
}

func supports(m ModelInfo, action string) bool {
	for _, a := range m.SupportedActions {
		if a == action {
			return true
		}
	}
	return false
}
