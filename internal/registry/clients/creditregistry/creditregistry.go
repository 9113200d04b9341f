// Package creditregistry provides clients for the external credit registry.
//
// Two implementations exist: MockClient derives segment profiles from the
// personal code suffix with a configurable latency, and HTTPClient calls a
// real registry service. Both satisfy Client, so the registry service does
// not care which one it is wired with.
package creditregistry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"decisio/internal/registry/models"
	dErrors "decisio/pkg/domain-errors"
	"decisio/pkg/personalcode"
)

// Lookup sources recorded on returned profiles.
const (
	SourceMock = "mock"
	SourceHTTP = "http"
)

// Client queries the credit registry for a person's segment profile.
type Client interface {
	SegmentProfile(ctx context.Context, personalCode string) (models.SegmentProfile, error)

	// Source identifies the client implementation in metrics and profiles.
	Source() string
}

// MockClient is a deterministic in-process registry. The last four digits of
// the personal code select the segment, so any test identity maps to a known
// band without fixture data. Latency mimics a real-world network call.
type MockClient struct {
	Latency time.Duration
}

// SegmentProfile derives the profile from the personal code suffix.
func (c MockClient) SegmentProfile(_ context.Context, code string) (models.SegmentProfile, error) {
	time.Sleep(c.Latency)
	suffix, err := personalcode.Suffix(code)
	if err != nil {
		return models.SegmentProfile{}, dErrors.Wrap(err, dErrors.CodeInvalidPersonalCode, "personal code rejected by registry")
	}
	segment, modifier := models.SegmentForSuffix(suffix)
	return models.SegmentProfile{
		PersonalCode: code,
		Segment:      segment,
		Modifier:     modifier,
		Source:       SourceMock,
		CheckedAt:    time.Now(),
	}, nil
}

// Source identifies the mock client.
func (c MockClient) Source() string { return SourceMock }

// HTTPClient calls an external credit registry service over HTTP.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)
var _ Client = MockClient{}

// HTTPClientOption configures the HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// NewHTTPClient creates a new HTTP-based credit registry client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// segmentRequest is the request body for a segment lookup.
type segmentRequest struct {
	PersonalCode string `json:"personal_code"`
}

// segmentResponse is the response from the credit registry service.
type segmentResponse struct {
	PersonalCode string `json:"personal_code"`
	Segment      string `json:"segment"`
	Modifier     int    `json:"credit_modifier"`
	CheckedAt    string `json:"checked_at"`
}

// errorResponse is an error body from the registry service.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SegmentProfile performs a segment lookup by personal code.
func (c *HTTPClient) SegmentProfile(ctx context.Context, code string) (models.SegmentProfile, error) {
	reqBody, err := json.Marshal(segmentRequest{PersonalCode: code})
	if err != nil {
		return models.SegmentProfile{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to marshal registry request")
	}

	url := fmt.Sprintf("%s/api/v1/segments/lookup", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return models.SegmentProfile{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create registry request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return models.SegmentProfile{}, dErrors.Wrap(err, dErrors.CodeTimeout, "credit registry request timed out")
		}
		return models.SegmentProfile{}, dErrors.Wrap(err, dErrors.CodeRegistryUnavailable, "credit registry unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.SegmentProfile{}, dErrors.Wrap(err, dErrors.CodeRegistryUnavailable, "failed to read registry response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// Success, parse below.
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if msg := errorMessage(body); msg != "" {
			return models.SegmentProfile{}, dErrors.New(dErrors.CodeInvalidPersonalCode, msg)
		}
		return models.SegmentProfile{}, dErrors.New(dErrors.CodeInvalidPersonalCode, "personal code rejected by registry")
	case http.StatusUnauthorized, http.StatusForbidden:
		return models.SegmentProfile{}, dErrors.New(dErrors.CodeRegistryUnavailable, "credit registry rejected credentials")
	case http.StatusNotFound:
		return models.SegmentProfile{}, dErrors.New(dErrors.CodeNotFound, "person not known to credit registry")
	case http.StatusTooManyRequests:
		return models.SegmentProfile{}, dErrors.New(dErrors.CodeRegistryUnavailable, "credit registry rate limited")
	default:
		return models.SegmentProfile{}, dErrors.New(dErrors.CodeRegistryUnavailable, fmt.Sprintf("unexpected registry status: %d", resp.StatusCode))
	}

	var segResp segmentResponse
	if err := json.Unmarshal(body, &segResp); err != nil {
		return models.SegmentProfile{}, dErrors.Wrap(err, dErrors.CodeRegistryUnavailable, "failed to parse registry response")
	}

	checkedAt, err := time.Parse(time.RFC3339, segResp.CheckedAt)
	if err != nil {
		checkedAt = time.Now()
	}

	return models.SegmentProfile{
		PersonalCode: segResp.PersonalCode,
		Segment:      models.Segment(segResp.Segment),
		Modifier:     segResp.Modifier,
		Source:       SourceHTTP,
		CheckedAt:    checkedAt,
	}, nil
}

// Source identifies the HTTP client.
func (c *HTTPClient) Source() string { return SourceHTTP }

// Ping probes the registry health endpoint. Used by the readiness check, so
// it must stay cheap and unauthenticated.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create registry ping request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeRegistryUnavailable, "credit registry unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dErrors.New(dErrors.CodeRegistryUnavailable, fmt.Sprintf("registry health returned %d", resp.StatusCode))
	}
	return nil
}

func errorMessage(body []byte) string {
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) != nil {
		return ""
	}
	if errResp.Message != "" {
		return errResp.Message
	}
	return errResp.Error
}
