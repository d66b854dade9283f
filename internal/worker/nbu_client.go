package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Lutefd/nbu-rates/internal/commons"
	"github.com/Lutefd/nbu-rates/internal/model"
)

type NBUClient struct {
	baseURL string
	client  *http.Client
}

type ClientOption func(*NBUClient)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *NBUClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *NBUClient) {
		c.client.Timeout = timeout
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *NBUClient) {
		c.client = client
	}
}

func NewNBUClient(opts ...ClientOption) *NBUClient {
	c := &NBUClient{
		baseURL: commons.DefaultNBUBaseURL,
		client:  &http.Client{Timeout: commons.DefaultNBUTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRates makes exactly one request; failures come back as
// *model.UpstreamError.
func (c *NBUClient) FetchRates(ctx context.Context, day time.Time) ([]model.ProviderRate, error) {
	url := fmt.Sprintf("%s/exchange?date=%s&json", c.baseURL, day.Format(model.ProviderLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, model.NewUpstreamError(model.ErrUpstreamUnexpected, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, model.NewUpstreamError(model.ErrUpstreamTimeout, err)
		}
		return nil, model.NewUpstreamError(model.ErrUpstreamRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, model.NewUpstreamError(model.ErrUpstreamRequest, fmt.Errorf("API request failed with status code: %d", resp.StatusCode))
	}

	var rates []model.ProviderRate
	if err := json.NewDecoder(resp.Body).Decode(&rates); err != nil {
		if isTimeout(err) {
			return nil, model.NewUpstreamError(model.ErrUpstreamTimeout, err)
		}
		return nil, model.NewUpstreamError(model.ErrUpstreamUnexpected, fmt.Errorf("failed to decode response: %w", err))
	}

	return rates, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
