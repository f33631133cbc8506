// Package api is the HTTP client for the remote chat service, the
// widget's single outbound collaborator.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ramilabs/ramichat/pkg/logger"
)

const jsonContentType = "application/json"

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("chat request failed: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("chat request failed: status %d", e.StatusCode)
}

// Client talks to the chat service. One attempt per call: no retries, no
// cancellation beyond the configured transport timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// SendQuery posts one chat request and decodes the answer.
func (c *Client) SendQuery(ctx context.Context, request Request) (*Response, error) {
	reqBytes, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", jsonContentType)
	req.Header.Set("Accept", jsonContentType)

	res, err := c.httpClient.Do(req)
	if err != nil {
		logger.ErrorCF("api", "Chat request failed", map[string]interface{}{
			"session_id": request.SessionID,
			"client_id":  request.ClientID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("sending chat request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading chat response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: res.StatusCode}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			statusErr.Detail = eb.Detail
		}
		logger.WarnCF("api", "Chat service returned an error", map[string]interface{}{
			"session_id": request.SessionID,
			"client_id":  request.ClientID,
			"status":     res.StatusCode,
			"detail":     statusErr.Detail,
		})
		return nil, statusErr
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding chat response: %w", err)
	}

	logger.DebugCF("api", "Chat response received", map[string]interface{}{
		"session_id": request.SessionID,
		"client_id":  request.ClientID,
		"answer_len": len(resp.Answer),
	})
	return &resp, nil
}
