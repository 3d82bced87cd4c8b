package rules

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patternforge/patternforge/internal/netfetch"
)

// RemoteFetcher retrieves a parent rule catalog over HTTPS for hierarchical
// inheritance, rate-limited and retried so a catalog that inherits from
// many parents does not hammer a single host.
type RemoteFetcher struct {
	client  *http.Client
	limiter *netfetch.RateLimiter
	retry   netfetch.RetryConfig
}

// NewRemoteFetcher builds a fetcher allowing at most rps requests/second.
func NewRemoteFetcher(rps int) *RemoteFetcher {
	if rps <= 0 {
		rps = 4
	}
	return &RemoteFetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: netfetch.NewRateLimiter(rps),
		retry:   netfetch.DefaultRetryConfig(),
	}
}

// Fetch retrieves url's body, retrying transient failures with backoff.
func (f *RemoteFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("insecure URL (must use HTTPS): %s", url)
	}

	var body []byte
	err := netfetch.WithRetry(ctx, f.retry, func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "patternforge/1.0")
		req.Header.Set("Accept", "application/json, application/yaml, text/yaml, application/x-yaml")

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if netfetch.IsRetryableStatusCode(resp.StatusCode) {
				return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
			}
			return fmt.Errorf("non-retryable HTTP %d: %s", resp.StatusCode, resp.Status)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1MB catalog cap
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
