package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"maison_atelier/internal/lib/logger/sl"
	"maison_atelier/internal/metrics"
	"maison_atelier/internal/storage"
)

// TokenSource provides and invalidates the stored operator token.
type TokenSource interface {
	AdminToken(ctx context.Context) (string, error)
	ClearAdminToken(ctx context.Context) error
}

// Client is the only place outbound requests to the remote content
// service are made. It attaches the bearer token when one is stored and
// converts an authorization failure into cleared credentials plus the
// registered unauthorized hook (the HTTP layer turns that into a
// redirect to the login view).
type Client struct {
	log            *slog.Logger
	http           *http.Client
	baseURL        string
	tokens         TokenSource
	onUnauthorized func()
}

func New(log *slog.Logger, baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		log:     log,
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
	}
}

func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// do issues one JSON request. out may be nil for status-only responses.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	const op = "gateway.Client.do"

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	raw, err := c.send(req, method)
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}

	return nil
}

// send runs the prepared request and applies the shared response
// policy: bearer injection, metrics, 401 handling, error envelopes.
func (c *Client) send(req *http.Request, metricMethod string) ([]byte, error) {
	const op = "gateway.Client.send"

	log := c.log.With(
		slog.String("op", op),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if token, err := c.tokens.AdminToken(req.Context()); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if err != nil && !errors.Is(err, storage.ErrNoToken) {
		log.Warn("token lookup failed", sl.Err(err))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RemoteRequestDuration.WithLabelValues(metricMethod).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(metricMethod, "transport_error").Inc()
		log.Error("request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	metrics.RemoteRequestsTotal.WithLabelValues(metricMethod, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		log.Warn("token rejected, clearing stored credentials")

		if err := c.tokens.ClearAdminToken(req.Context()); err != nil {
			log.Error("failed to clear stored token", sl.Err(err))
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}

		return nil, fmt.Errorf("%s: %w", op, storage.ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env apiError
		_ = json.Unmarshal(raw, &env)

		statusErr := &StatusError{Code: resp.StatusCode, Message: env.text()}
		log.Warn("non-2xx response", slog.Int("status", resp.StatusCode))

		return nil, fmt.Errorf("%s: %w", op, statusErr)
	}

	return raw, nil
}
