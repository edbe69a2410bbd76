package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRebuildInProgress reports that the API refused the trigger because
// a rebuild was already running. Callers treat it as a skipped run, not
// a failure.
var ErrRebuildInProgress = errors.New("rebuild already in progress")

// ReindexStats is the API's account of a completed rebuild.
type ReindexStats struct {
	Books    int
	Features int
	Duration time.Duration
}

// ReindexClient triggers index rebuilds on a running API process. The
// worker holds no index of its own; the API's snapshot is the only one
// queries are served from, so the rebuild has to happen there.
type ReindexClient struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewReindexClient creates a client for the API at baseURL. The
// credentials must belong to the admin user; a fresh token is fetched
// for every trigger so the worker survives token expiry between runs.
func NewReindexClient(baseURL, username, password string) *ReindexClient {
	return &ReindexClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		client:   &http.Client{},
	}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type reindexResponse struct {
	Status     string  `json:"status"`
	Books      int     `json:"books"`
	Features   int     `json:"features"`
	DurationMS float64 `json:"duration_ms"`
}

// Trigger authenticates and fires one rebuild, returning the API's
// stats. A 409 from the API maps to ErrRebuildInProgress.
func (c *ReindexClient) Trigger(ctx context.Context) (*ReindexStats, error) {
	token, err := c.fetchToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/reindex", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trigger reindex: %w", err)
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusConflict:
		return nil, ErrRebuildInProgress
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("trigger reindex: unexpected status %d", resp.StatusCode)
	}

	var body reindexResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode reindex response: %w", err)
	}
	return &ReindexStats{
		Books:    body.Books,
		Features: body.Features,
		Duration: time.Duration(body.DurationMS * float64(time.Millisecond)),
	}, nil
}

func (c *ReindexClient) fetchToken(ctx context.Context) (string, error) {
	payload, err := json.Marshal(tokenRequest{Username: c.username, Password: c.password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Token == "" {
		return "", errors.New("empty token in response")
	}
	return body.Token, nil
}

// drainAndClose reads the remainder of the body so the connection can
// be reused across runs.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<16))
	_ = body.Close()
}
