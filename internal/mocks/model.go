package mocks

import "context"

// Mock Model
type MockModel struct {
	Response string
	Err      error
	Calls    int
	Prompts  []string
}

func (m *MockModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
