package adminauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var _ RequestExecutor = (*HTTPExecutor)(nil)

// HTTPExecutor is the default RequestExecutor, speaking JSON over HTTP.
// It knows nothing about credentials or languages; the gateway injects
// those before calling Do.
type HTTPExecutor struct {
	base   string
	client *http.Client
	logger Logger
}

// NewHTTPExecutor returns an executor resolving request paths against
// baseURL.
func NewHTTPExecutor(baseURL string) *HTTPExecutor {
	return &HTTPExecutor{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
		logger: defLogger{},
	}
}

func (e *HTTPExecutor) WithClient(client *http.Client) *HTTPExecutor {
	if client != nil {
		e.client = client
	}
	return e
}

func (e *HTTPExecutor) WithLogger(logger Logger) *HTTPExecutor {
	if logger != nil {
		e.logger = logger
	}
	return e
}

func (e *HTTPExecutor) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	body := req.Body
	if body == nil {
		body = map[string]any{}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, e.base+req.Path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	httpResp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	envelope := Envelope{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			// Some endpoints (logout) answer with arbitrary payloads;
			// the callers that care check the envelope themselves.
			e.logger.Debug("non-JSON response from %s (%d bytes)", req.Path, len(raw))
			envelope = Envelope{}
		}
	}

	return &Response{Status: httpResp.StatusCode, Body: envelope}, nil
}
