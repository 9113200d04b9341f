package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"decisio/internal/decision"
	"decisio/internal/decision/adapters"
	decisionhandler "decisio/internal/decision/handler"
	"decisio/internal/platform/metrics"
	"decisio/internal/registry/clients/creditregistry"
	registryservice "decisio/internal/registry/service"
	"decisio/internal/registry/store"
	"decisio/internal/token"
	httptransport "decisio/internal/transport/http"
)

const (
	devSigningKey = "dev-secret-key-change-in-production"
	tokenTTL      = 15 * time.Minute
)

// The suite runs against an in-process server by default. Setting BASE_URL
// targets a live deployment instead; the signing key must then match the
// server's DECISIO_JWT_SIGNING_KEY.
var (
	stackOnce sync.Once
	baseURL   string
)

func serverBaseURL() string {
	stackOnce.Do(func() {
		if url := os.Getenv("BASE_URL"); url != "" {
			baseURL = url
			return
		}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		registrySvc := registryservice.New(creditregistry.MockClient{},
			registryservice.WithCache(store.NewInMemoryCache(5*time.Minute)),
			registryservice.WithLogger(logger),
		)
		decisionSvc := decision.New(adapters.NewSegmentAdapter(registrySvc),
			decision.WithLogger(logger),
		)

		router := httptransport.NewRouter(
			decisionhandler.New(decisionSvc, logger),
			token.NewMiddlewareAdapter(token.New(signingKey(), "e2e", tokenTTL)),
			metrics.New(prometheus.NewRegistry()),
			logger,
		)

		// Never shut down: the server lives for the whole test binary.
		baseURL = httptest.NewServer(router).URL
	})
	return baseURL
}

func signingKey() string {
	if key := os.Getenv("DECISIO_JWT_SIGNING_KEY"); key != "" {
		return key
	}
	return devSigningKey
}

// mintServiceToken issues a short-lived token accepted by the suite's server.
func mintServiceToken() (string, error) {
	return token.New(signingKey(), "e2e", tokenTTL).Mint("e2e-suite")
}

// TestContext holds state between test steps.
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	Token            string
	LastResponse     *http.Response
	LastResponseBody []byte
}

// NewTestContext creates a new test context bound to the suite's server.
func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL:    serverBaseURL(),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.Token = ""
	tc.LastResponse = nil
	tc.LastResponseBody = nil
}

// POST marshals body and posts it to path, storing the response.
func (tc *TestContext) POST(path string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return tc.POSTRaw(path, string(data))
}

// POSTRaw posts a raw body to path, storing the response.
func (tc *TestContext) POSTRaw(path, body string) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, tc.BaseURL+path, bytes.NewReader([]byte(body)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if tc.Token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.Token)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// GetResponseField extracts a top-level field from the JSON response.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response: %s", field, string(tc.LastResponseBody))
	}

	return value, nil
}

// ResponseContains checks if the response body contains a field or text.
func (tc *TestContext) ResponseContains(text string) bool {
	if strings.Contains(string(tc.LastResponseBody), text) {
		return true
	}

	var data map[string]interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err == nil {
		if _, ok := data[text]; ok {
			return true
		}
	}

	return false
}
