// Package catalog fetches vehicle snapshots from the upstream catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
	"github.com/Fayuquero09/cortex-automotriz/pkg/fn"
	"github.com/Fayuquero09/cortex-automotriz/pkg/resilience"
)

// Client talks to the upstream catalog REST API. Requests are rate limited,
// retried with backoff, and guarded by a circuit breaker.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *resilience.Breaker
	retry      fn.RetryOpts
}

// Opts configures the catalog client.
type Opts struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// New creates a catalog client.
func New(opts Opts) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		breaker:    resilience.NewBreaker(resilience.DefaultBreakerOpts),
		retry: fn.RetryOpts{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Jitter:      true,
		},
	}
}

// get performs a rate-limited, breaker-guarded, retried GET and decodes
// the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	result := fn.Retry(ctx, c.retry, func(ctx context.Context) fn.Result[[]byte] {
		return resilience.CallResult(c.breaker, ctx, func(ctx context.Context) fn.Result[[]byte] {
			if err := c.limiter.Wait(ctx); err != nil {
				return fn.Err[[]byte](err)
			}
			req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
			if err != nil {
				return fn.Err[[]byte](err)
			}
			if c.apiKey != "" {
				req.Header.Set("Authorization", "Bearer "+c.apiKey)
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fn.Err[[]byte](fmt.Errorf("catalog get %s: %w", path, err))
			}
			defer resp.Body.Close()
			if resp.StatusCode != 200 {
				return fn.Errf[[]byte]("catalog get %s: status %d", path, resp.StatusCode)
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fn.Err[[]byte](err)
			}
			return fn.Ok(body)
		})
	})

	body, err := result.Unwrap()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("catalog decode %s: %w", path, err)
	}
	return nil
}

// Makes returns the list of known makes.
func (c *Client) Makes(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/makes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Versions returns all version snapshots for a make and model. Model may be
// empty to fetch every model of the make.
func (c *Client) Versions(ctx context.Context, makeName, model string) ([]domain.Record, error) {
	params := url.Values{"make": {makeName}}
	if model != "" {
		params.Set("model", model)
	}
	var out []domain.Record
	if err := c.get(ctx, "/versions", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Version returns a single version snapshot by its catalog id.
func (c *Client) Version(ctx context.Context, id string) (domain.Record, error) {
	var out domain.Record
	if err := c.get(ctx, "/versions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
