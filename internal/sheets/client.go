package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dash-api/pkg/config"
	appErrors "github.com/noah-isme/sma-dash-api/pkg/errors"
)

const maxResponseBytes = 8 << 20

// UpstreamObserver receives timing for every call to the data API.
type UpstreamObserver interface {
	ObserveUpstreamRequest(endpoint string, duration time.Duration, err error)
}

// Client talks to the remote spreadsheet-backed data API. Every endpoint
// answers the uniform envelope {success, error?, ...payload}; the envelope is
// decoded exactly once here and success=false becomes a typed upstream error
// carrying the verbatim upstream message.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *zap.Logger
	observer   UpstreamObserver
}

// NewClient constructs a Client from configuration.
func NewClient(cfg config.SheetsConfig, logger *zap.Logger, observer UpstreamObserver) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		logger:     logger,
		observer:   observer,
	}
}

// envelope is the common wire contract of the data API.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (e envelope) ok() (bool, string) {
	return e.Success, e.Error
}

type apiResponse interface {
	ok() (bool, string)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out apiResponse) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if c.observer != nil {
		c.observer.ObserveUpstreamRequest(path, duration, err)
	}
	if err != nil {
		c.logger.Warn("sheets request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", duration),
			zap.Error(err))
		return appErrors.Upstream(err, "")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return appErrors.Upstream(err, "")
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return appErrors.Upstream(err, fmt.Sprintf("data API returned status %d", resp.StatusCode))
	}

	if success, message := out.ok(); !success {
		if message == "" {
			message = fmt.Sprintf("data API returned status %d", resp.StatusCode)
		}
		return appErrors.Upstream(nil, message)
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out apiResponse) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out apiResponse) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body interface{}, out apiResponse) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out apiResponse) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}
