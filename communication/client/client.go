// Package client calls a lineup server and implements communication.Runner.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"lineup/communication"
	"lineup/engine"
	"lineup/searcher"
	"lineup/store"
)

// StatusError is a non-2xx reply from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

type Client struct {
	serverURL string
	http      *http.Client
}

var _ communication.Runner = (*Client)(nil)

// New returns a client for serverURL. A nil httpClient uses http.DefaultClient.
func New(serverURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      httpClient,
	}
}

func (c *Client) Simulate(ctx context.Context, req communication.SimulateRequest) (engine.TrialSummary, error) {
	var resp communication.SimulateResponse
	if err := c.do(ctx, http.MethodPost, "/simulate", req, &resp); err != nil {
		return engine.TrialSummary{}, err
	}
	return resp.Summary, nil
}

func (c *Client) Search(ctx context.Context, req communication.SearchRequest) (searcher.Summary, error) {
	var resp communication.SearchResponse
	if err := c.do(ctx, http.MethodPost, "/search", req, &resp); err != nil {
		return searcher.Summary{}, err
	}
	return resp.Summary, nil
}

func (c *Client) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	var runs []store.Run
	if err := c.do(ctx, http.MethodGet, "/runs?limit="+strconv.Itoa(limit), nil, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (c *Client) Run(ctx context.Context, id int64) (store.Run, error) {
	var run store.Run
	if err := c.do(ctx, http.MethodGet, "/runs/"+strconv.FormatInt(id, 10), nil, &run); err != nil {
		return store.Run{}, err
	}
	return run, nil
}

func (c *Client) Healthy(ctx context.Context) error {
	var status map[string]string
	return c.do(ctx, http.MethodGet, "/healthz", nil, &status)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
