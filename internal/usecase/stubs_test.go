package usecase

import (
	"context"
	"errors"
	"strings"

	"supportbot/internal/port"
)

// stubEmbedder returns a canned vector per input text, or fails.
type stubEmbedder struct {
	vectors map[string][]float32
	dim     int
	err     error
}

func (e *stubEmbedder) Embed(texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := e.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = make([]float32, e.dim)
		}
	}
	return out, nil
}

func (e *stubEmbedder) Dimension() int    { return e.dim }
func (e *stubEmbedder) ModelName() string { return "stub" }

// failingStore errors on every operation.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Upsert([]port.Item) error                 { return errStoreDown }
func (failingStore) Query([]float32, int) ([]port.Hit, error) { return nil, errStoreDown }
func (failingStore) Clear() error                             { return errStoreDown }
func (failingStore) Count() (int, error)                      { return 0, errStoreDown }
func (failingStore) Close() error                             { return nil }

// stubLLM answers by prompt keyword, or fails.
type stubLLM struct {
	// reply is returned for every call unless replyFor matches first.
	reply    string
	replyFor map[string]string
	err      error

	lastSystem string
	lastUser   string
}

func (l *stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return l.GenerateWithSystem(ctx, "", prompt)
}

func (l *stubLLM) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	l.lastSystem = systemPrompt
	l.lastUser = userPrompt
	lower := strings.ToLower(userPrompt)
	for key, reply := range l.replyFor {
		if strings.Contains(lower, strings.ToLower(key)) {
			return reply, nil
		}
	}
	return l.reply, nil
}

func (l *stubLLM) ModelName() string { return "stub" }
