/* client.go
 * Contains the shared HTTP plumbing used by the roster, match-config and bracket
 * clients: a rate-limited JSON request helper so a burst of acceptances cannot
 * hammer the upstream services
 */

package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"match-service/api/shared"

	"golang.org/x/time/rate"
)

const requestTimeout = 10 * time.Second

// client wraps an http.Client with a base URL and an outbound rate limit
type client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func newClient(baseURL string) client {
	return client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// Function to perform a JSON request against the service behind the client
// Preconditions: Receives the HTTP method, path relative to the base URL, an optional
// body to encode and an optional destination to decode into
// Postconditions: Returns shared.ErrUpstream for transport failures and non-2xx
// responses, or a decode error
func (c client) doJSON(method string, path string, body any, out any) error {
	if err := c.limiter.Wait(context.TODO()); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrUpstream, err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request to %s failed: %v", shared.ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned status %d", shared.ErrUpstream, method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response from %s: %v", shared.ErrUpstream, path, err)
		}
	}
	return nil
}
