// Package e2e drives a running tapclaim deployment as a black box.
// Point E2E_BASE_URL at the service under test and run with go test.
package e2e

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext holds per-scenario state: the address pair under test and the
// last HTTP exchange.
type TestContext struct {
	baseURL string
	client  *http.Client

	ethAddress string
	rgbAddress string

	lastStatus int
	lastBody   []byte
}

// NewTestContext creates a harness for one suite run.
func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Reset clears scenario state so scenarios stay independent.
func (tc *TestContext) Reset() {
	tc.ethAddress = ""
	tc.rgbAddress = ""
	tc.lastStatus = 0
	tc.lastBody = nil
}

// GenerateAddressPair mints a random EVM and Taproot address pair so
// scenarios never collide with earlier runs against the same deployment.
func (tc *TestContext) GenerateAddressPair() error {
	eth := make([]byte, 20)
	if _, err := rand.Read(eth); err != nil {
		return fmt.Errorf("generate eth address: %w", err)
	}
	rgb := make([]byte, 16)
	if _, err := rand.Read(rgb); err != nil {
		return fmt.Errorf("generate rgb address: %w", err)
	}
	tc.ethAddress = "0x" + hex.EncodeToString(eth)
	tc.rgbAddress = "bc1p" + hex.EncodeToString(rgb)
	return nil
}

// EthAddress returns the scenario's EVM address.
func (tc *TestContext) EthAddress() string { return tc.ethAddress }

// RgbAddress returns the scenario's Taproot address.
func (tc *TestContext) RgbAddress() string { return tc.rgbAddress }

// ValidSignature returns a signature that passes the length check.
func (tc *TestContext) ValidSignature() string {
	return "0x" + strings.Repeat("ab", 65)
}

// POST sends a JSON body and records the response.
func (tc *TestContext) POST(path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	resp, err := tc.client.Post(tc.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	return tc.record(resp)
}

// GET sends a request with optional headers and records the response.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build GET %s: %w", path, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return tc.record(resp)
}

func (tc *TestContext) record(resp *http.Response) error {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = body
	return nil
}

// GetLastResponseStatus returns the status code of the most recent exchange.
func (tc *TestContext) GetLastResponseStatus() int { return tc.lastStatus }

// GetLastResponseBody returns the raw body of the most recent exchange.
func (tc *TestContext) GetLastResponseBody() []byte { return tc.lastBody }

// GetResponseField returns a top-level field of the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var payload map[string]any
	if err := json.Unmarshal(tc.lastBody, &payload); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	v, ok := payload[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response: %s", field, tc.lastBody)
	}
	return v, nil
}
