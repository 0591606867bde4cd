package loader

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const acceptDeclarations = "application/yaml, application/json;q=0.9, */*;q=0.5"

func httpReader(client *http.Client, timeout time.Duration) fetcher {
	if client == nil {
		return func(context.Context, string) ([]byte, error) {
			return nil, ErrHTTPDisabled
		}
	}
	return func(ctx context.Context, url string) ([]byte, error) {
		ctx, cancel := timeoutContext(ctx, timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", acceptDeclarations)

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return readLimited(resp.Body)
	}
}
