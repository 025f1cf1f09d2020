// Package graphql posts GraphQL documents to a single endpoint and unwraps
// the response envelope.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada-lists/internal/log"
)

// Client talks to one GraphQL endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient returns a client for endpoint. A nil httpClient uses a client
// without timeout; cancellation is driven by the request context.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Request is one GraphQL call.
type Request struct {
	Query     string
	Variables map[string]any
	// Token is sent as a bearer credential when non-empty.
	Token string
}

type body struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type envelope struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []Error                    `json:"errors"`
}

// Do sends req and decodes data.<field> into out. A non-empty errors list
// fails the call with its first entry.
func (c *Client) Do(ctx context.Context, req Request, field string, out any) error {
	payload, err := json.Marshal(body{Query: req.Query, Variables: req.Variables})
	if err != nil {
		return fmt.Errorf("graphql: marshal %s: %w", field, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("graphql: new request: %w", err)
	}
	requestID := uuid.New().String()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)
	if req.Token != "" {
		httpReq.Header.Set("authorization", "Bearer "+req.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Warn().Err(err).Str("op", field).Str("request_id", requestID).Msg("graphql request failed")
		return fmt.Errorf("graphql: %s: %w", field, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("graphql: read %s response: %w", field, err)
	}
	log.Debug().
		Str("op", field).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("graphql")

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &StatusError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode %s response: %w", field, err)}
	}
	if len(env.Errors) > 0 {
		first := env.Errors[0]
		log.Info().
			Str("op", field).
			Str("request_id", requestID).
			Int("errors", len(env.Errors)).
			Interface("path", first.Path).
			Interface("extensions", first.Extensions).
			Msg(first.Message)
		return &first
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	data, ok := env.Data[field]
	if !ok {
		return fmt.Errorf("graphql: response has no data.%s", field)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("graphql: decode data.%s: %w", field, err)
	}
	return nil
}
