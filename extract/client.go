package extract

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/oletk/sales-insights-etl/config"
)

// newHTTPClient builds the shared retryablehttp client. Retries are disabled
// by default (retry_max: 0 in the base config); the backoff knobs only take
// effect when an operator raises retry_max.
func newHTTPClient(cfg *config.Config, logger *slog.Logger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryWaitMin = cfg.Extract.Backoff.RetryWaitMin
	client.RetryWaitMax = cfg.Extract.Backoff.RetryWaitMax
	client.RetryMax = cfg.Extract.Backoff.RetryMax
	client.Logger = logger
	return client
}

// get fetches the URL and returns the body and response
func get(client *retryablehttp.Client, url string) (body []byte, resp *http.Response, err error) {
	resp, err = client.Get(url)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	return body, resp, nil
}

// fetchData handles the common logic of making the HTTP request and checking
// the response status. Transport-level errors cover 5xx responses too: the
// retry policy treats those as retryable, so with retries exhausted (or
// disabled) the client surfaces them as an error with no response.
func fetchData(client *retryablehttp.Client, url, description string) ([]byte, error) {
	body, resp, err := get(client, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", description, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s, status: %s, body: %s", description, resp.Status, string(body))
	}

	return body, nil
}
