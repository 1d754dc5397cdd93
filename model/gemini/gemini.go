// Package gemini provides an implementation of model.Model using the Google
// Gemini API via the official GenAI SDK.
package gemini

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/bhstoller/multi-agent-customer-service/model"
)

// Options configure the Gemini model adapter.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	APIKey          string
}

// Model wraps the Gemini API behind the generic model.Model interface.
// The underlying client is created lazily because the SDK requires a context
// for construction.
type Model struct {
	opts Options

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewModel creates a new Gemini model. The API key falls back to the SDK's
// environment resolution when unset.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:           "gemini-2.0-flash",
		Temperature:     0.7,
		MaxOutputTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{opts: opts}
}

func (m *Model) init(ctx context.Context) error {
	m.initOnce.Do(func() {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  m.opts.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			m.initErr = fmt.Errorf("gemini client creation failed: %w", err)
			return
		}
		m.client = client
	})
	return m.initErr
}

// Generate implements model.Model.
func (m *Model) Generate(ctx context.Context, turns []model.Turn) (string, error) {
	if err := m.init(ctx); err != nil {
		return "", err
	}

	contents := buildContents(turns)
	if len(contents) == 0 {
		return "", fmt.Errorf("no conversation turns provided")
	}

	config := &genai.GenerateContentConfig{
		Temperature:     &m.opts.Temperature,
		MaxOutputTokens: m.opts.MaxOutputTokens,
	}

	result, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("empty response from gemini api")
	}

	return result.Text(), nil
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "gemini"}
}

// buildContents converts history turns into the SDK's content format. Gemini
// natively uses the user/model role pair, so roles pass through unchanged.
func buildContents(turns []model.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		if t.Text == "" {
			continue
		}
		role := t.Role
		if role != model.RoleUser && role != model.RoleModel {
			role = model.RoleUser
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Text}},
		})
	}
	return contents
}
