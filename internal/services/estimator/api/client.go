package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/threepoint/internal/services/estimator/platform/errors"
)

// Client calls the estimator HTTP API. Error responses come back as typed
// errors carrying the server's message and a kind derived from the status.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the API served at baseURL. A nil client
// falls back to http.DefaultClient.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  client,
	}
}

// Estimate computes an estimate without persisting it.
func (c *Client) Estimate(ctx context.Context, req EstimateRequest) (EstimationResponse, error) {
	var resp EstimationResponse
	err := c.do(ctx, "estimate", http.MethodPost, EstimatePath, req, http.StatusOK, &resp)
	return resp, err
}

// SaveEstimate computes an estimate and persists it as a history entry.
func (c *Client) SaveEstimate(ctx context.Context, req EstimateRequest) (HistoryEntry, error) {
	var entry HistoryEntry
	err := c.do(ctx, "save estimate", http.MethodPost, HistoryPath, req, http.StatusCreated, &entry)
	return entry, err
}

// History lists saved estimates newest first. Zero values defer paging to
// the server defaults.
func (c *Client) History(ctx context.Context, limit, offset int) (HistoryListResponse, error) {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		values.Set("offset", strconv.Itoa(offset))
	}
	path := HistoryPath
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var resp HistoryListResponse
	err := c.do(ctx, "list history", http.MethodGet, path, nil, http.StatusOK, &resp)
	return resp, err
}

// DeleteHistoryEntry removes one saved estimate by id.
func (c *Client) DeleteHistoryEntry(ctx context.Context, entryID string) error {
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return apperrors.E(apperrors.KindInvalidInput, "entry id is required")
	}
	path := HistoryPath + "/" + url.PathEscape(entryID)
	return c.do(ctx, "delete history entry", http.MethodDelete, path, nil, http.StatusNoContent, nil)
}

// ClearHistory removes every saved estimate.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, "clear history", http.MethodDelete, HistoryPath, nil, http.StatusNoContent, nil)
}

// Insights aggregates the stored history.
func (c *Client) Insights(ctx context.Context) (InsightsResponse, error) {
	var resp InsightsResponse
	err := c.do(ctx, "history insights", http.MethodGet, HistoryInsightsPath, nil, http.StatusOK, &resp)
	return resp, err
}

// Convert converts value into the target unit; the input is read in the
// opposite unit.
func (c *Client) Convert(ctx context.Context, value float64, to string) (ConvertResponse, error) {
	values := url.Values{}
	values.Set("value", strconv.FormatFloat(value, 'f', -1, 64))
	values.Set("to", to)
	var resp ConvertResponse
	err := c.do(ctx, "convert", http.MethodGet, ConvertPath+"?"+values.Encode(), nil, http.StatusOK, &resp)
	return resp, err
}

// ZScores fetches the fixed percentile table.
func (c *Client) ZScores(ctx context.Context) (ZScoresResponse, error) {
	var resp ZScoresResponse
	err := c.do(ctx, "zscores", http.MethodGet, ZScoresPath, nil, http.StatusOK, &resp)
	return resp, err
}

// Health reports whether the API answers its health route.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, HealthPath, nil, http.StatusOK, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, payload any, wantStatus int, target any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return apiError(op, resp)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// apiError turns a non-success response into a typed error, preferring the
// server's message over the bare status line.
func apiError(op string, resp *http.Response) error {
	kind := apperrors.KindForHTTPStatus(resp.StatusCode)
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Error) == "" {
		return apperrors.E(kind, fmt.Sprintf("%s returned %s", op, resp.Status))
	}
	return apperrors.E(kind, payload.Error)
}
