package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/invixio/invixio/internal/httpclient"
)

var _ httpclient.Client = (*MockHTTPClient)(nil)

// MockHTTPClient replays canned responses keyed by URL.
type MockHTTPClient struct {
	mu        sync.Mutex
	responses map[string]*httpclient.Response
	failures  map[string]error
	requests  []*httpclient.Request
}

func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		responses: make(map[string]*httpclient.Response),
		failures:  make(map[string]error),
	}
}

// RespondWith registers the response returned for requests to url.
func (m *MockHTTPClient) RespondWith(url string, resp *httpclient.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[url] = resp
}

// FailWith registers the error returned for requests to url.
func (m *MockHTTPClient) FailWith(url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[url] = err
}

func (m *MockHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if err, ok := m.failures[req.URL]; ok {
		return nil, err
	}
	resp, ok := m.responses[req.URL]
	if !ok {
		return nil, fmt.Errorf("no canned response for %s", req.URL)
	}
	return resp, nil
}

// Requests returns the requests sent so far.
func (m *MockHTTPClient) Requests() []*httpclient.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*httpclient.Request(nil), m.requests...)
}
