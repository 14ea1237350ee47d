package mocks

import (
	"context"
	"fmt"

	"newslens/internal/fetch"
)

// Mock Fetcher
type MockFetcher struct {
	Pages       map[string]*fetch.Result
	Err         error
	Calls       []string
	LastHeaders map[string]string
}

func (m *MockFetcher) Get(ctx context.Context, url string, headers map[string]string) (*fetch.Result, error) {
	m.Calls = append(m.Calls, url)
	m.LastHeaders = headers
	if m.Err != nil {
		return nil, m.Err
	}
	if res, ok := m.Pages[url]; ok {
		return res, nil
	}
	return nil, &fetch.StatusError{URL: url, StatusCode: 404}
}

// HTMLPage is a convenience constructor for a successful HTML response
func HTMLPage(body string) *fetch.Result {
	return &fetch.Result{
		Body:        []byte(body),
		ContentType: "text/html; charset=utf-8",
		StatusCode:  200,
	}
}

// XMLPage is a convenience constructor for a successful feed response
func XMLPage(body string) *fetch.Result {
	return &fetch.Result{
		Body:        []byte(body),
		ContentType: "application/rss+xml",
		StatusCode:  200,
	}
}

var _ fetch.Fetcher = (*MockFetcher)(nil)

// ErrFetch is a reusable fetch failure for tests
var ErrFetch = fmt.Errorf("mock fetch failure")
