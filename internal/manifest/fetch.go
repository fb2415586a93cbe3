package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultURL is the manifest published by the Dragonwell project
	DefaultURL = "https://dragonwell-jdk.io/map_with_checksum.json"

	// FallbackURL mirrors DefaultURL on GitHub
	FallbackURL = "https://raw.githubusercontent.com/dragonwell-releng/dragonwell-setup-java/main/releases.json"
)

// Fetcher returns the raw manifest document
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPFetcher downloads the manifest, trying each URL in turn
type HTTPFetcher struct {
	client *retryablehttp.Client
	urls   []string
}

// NewHTTPFetcher creates a fetcher retrying each URL up to retries times
func NewHTTPFetcher(urls []string, retries int, timeout time.Duration) *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = retryLogger{}

	return &HTTPFetcher{client: client, urls: urls}
}

// Fetch returns the body of the first URL that answers 200 OK
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if len(f.urls) == 0 {
		return nil, fmt.Errorf("no manifest URL configured")
	}

	var errs []error
	for _, url := range f.urls {
		if url == "" {
			continue
		}
		body, err := f.get(ctx, url)
		if err == nil {
			return body, nil
		}
		log.Debug().Err(err).Str("url", url).Msg("manifest fetch failed")
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("failed to fetch manifest: %w", errors.Join(errs...))
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return body, nil
}

// retryLogger routes retryablehttp's leveled logging into zerolog
type retryLogger struct{}

func (retryLogger) Error(msg string, kv ...interface{}) { log.Error().Fields(kv).Msg(msg) }
func (retryLogger) Info(msg string, kv ...interface{})  { log.Debug().Fields(kv).Msg(msg) }
func (retryLogger) Debug(msg string, kv ...interface{}) { log.Debug().Fields(kv).Msg(msg) }
func (retryLogger) Warn(msg string, kv ...interface{})  { log.Warn().Fields(kv).Msg(msg) }
