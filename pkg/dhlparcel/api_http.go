package dhlparcel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// ProductionBaseURL is the Parcel DE Shipping API v2 production endpoint.
	ProductionBaseURL = "https://api-eu.dhl.com/parcel/de/shipping/v2/"

	// SandboxBaseURL is the Parcel DE Shipping API v2 sandbox endpoint.
	SandboxBaseURL = "https://api-sandbox.dhl.com/parcel/de/shipping/v2/"
)

// HTTPTransport is the production implementation of Transport.
type HTTPTransport struct {
	baseURL    string
	username   string
	password   string
	apiKey     string
	httpClient *http.Client
}

// HTTPTransportConfig holds configuration for the HTTP transport.
type HTTPTransportConfig struct {
	Username string
	Password string
	APIKey   string

	// Production selects ProductionBaseURL; otherwise SandboxBaseURL is used.
	Production bool

	// BaseURL overrides the endpoint selected by Production.
	BaseURL string

	Timeout time.Duration
}

// NewHTTPTransport creates a new HTTP transport.
func NewHTTPTransport(cfg HTTPTransportConfig) *HTTPTransport {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = SandboxBaseURL
		if cfg.Production {
			baseURL = ProductionBaseURL
		}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &HTTPTransport{
		baseURL:  baseURL,
		username: cfg.Username,
		password: cfg.Password,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the endpoint requests are sent to.
func (t *HTTPTransport) BaseURL() string {
	return t.baseURL
}

// Get implements Transport.
func (t *HTTPTransport) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return t.doRequest(ctx, http.MethodGet, path, query, nil)
}

// Post implements Transport.
func (t *HTTPTransport) Post(ctx context.Context, path string, query url.Values, body any) ([]byte, error) {
	return t.doRequest(ctx, http.MethodPost, path, query, body)
}

// Delete implements Transport.
func (t *HTTPTransport) Delete(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return t.doRequest(ctx, http.MethodDelete, path, query, nil)
}

// doRequest performs an HTTP request with proper headers and authentication.
func (t *HTTPTransport) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint := t.baseURL + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(t.username, t.password)
	req.Header.Set("dhl-api-key", t.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ClientError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	return respBody, nil
}

// Ensure HTTPTransport implements Transport interface
var _ Transport = (*HTTPTransport)(nil)
