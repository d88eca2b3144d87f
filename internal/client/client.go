// Package client implements the Pursuit API client. It is the boundary to
// the persistence collaborator: the pipeline store calls it and reconciles
// its working set against the responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/pursuitapp/pursuit/internal/domain"
)

// Client is the Pursuit API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// maxRetryElapsed bounds the retry-with-backoff window on reads;
	// retryInterval seeds the first backoff wait.
	maxRetryElapsed time.Duration
	retryInterval   time.Duration
}

// New creates a new API client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetryElapsed: 15 * time.Second,
		retryInterval:   500 * time.Millisecond,
	}
}

// moveStageRequest is the payload for a stage transition. RequestID is a
// client-generated idempotency key.
type moveStageRequest struct {
	Stage     domain.Stage `json:"stage"`
	RequestID string       `json:"request_id"`
}

// restoreRequest is the payload for re-staging an archived item.
type restoreRequest struct {
	Stage     domain.Stage `json:"stage"`
	RequestID string       `json:"request_id"`
}

// ListPipeline fetches one page of the user's pipeline items. Transient
// failures (network, 5xx) are retried with exponential backoff so a flaky
// connection does not wipe the board on refresh.
func (c *Client) ListPipeline(ctx context.Context, limit, offset int) ([]*domain.PipelineItem, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	path := "/api/pipeline?" + params.Encode()

	var items []*domain.PipelineItem
	op := func() error {
		items = nil
		err := c.get(ctx, path, &items)
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	bo.MaxElapsedTime = c.maxRetryElapsed
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("client.ListPipeline: %w", err)
	}
	return items, nil
}

// MoveStage persists a stage transition and returns the updated item.
func (c *Client) MoveStage(ctx context.Context, itemID string, target domain.Stage) (*domain.PipelineItem, error) {
	req := moveStageRequest{Stage: target, RequestID: uuid.NewString()}
	var updated domain.PipelineItem
	if err := c.post(ctx, "/api/pipeline/"+url.PathEscape(itemID)+"/stage", req, &updated); err != nil {
		return nil, fmt.Errorf("client.MoveStage: %w", err)
	}
	return &updated, nil
}

// DeleteItem permanently removes a pipeline item.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/pipeline/"+url.PathEscape(itemID), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteItem: %w", err)
	}
	return nil
}

// RestoreItem re-stages a previously archived item.
func (c *Client) RestoreItem(ctx context.Context, itemID string, toStage domain.Stage) (*domain.PipelineItem, error) {
	req := restoreRequest{Stage: toStage, RequestID: uuid.NewString()}
	var updated domain.PipelineItem
	if err := c.post(ctx, "/api/pipeline/"+url.PathEscape(itemID)+"/restore", req, &updated); err != nil {
		return nil, fmt.Errorf("client.RestoreItem: %w", err)
	}
	return &updated, nil
}

// SubmitFeedback hands off a completed feedback record.
func (c *Client) SubmitFeedback(ctx context.Context, rec *domain.FeedbackRecord) error {
	if err := c.post(ctx, "/api/feedback", rec, nil); err != nil {
		return fmt.Errorf("client.SubmitFeedback: %w", err)
	}
	return nil
}

// --- transport helpers ---

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
