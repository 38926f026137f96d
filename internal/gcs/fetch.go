package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
)

// Fetch tuning. Signed URL downloads go over plain HTTP, so transient
// network failures get a few fixed-delay retries.
const (
	fetchAttempts   = 3
	fetchRetryDelay = 2 * time.Second

	// errorBodyLimit bounds how much of a failure response body lands in
	// the error message.
	errorBodyLimit = 512
)

// FetchSignedURL downloads the content behind a signed URL into savePath.
// Non-2xx responses fail with the status and a trimmed response body;
// server-side (5xx) and transport errors are retried, client errors are
// not.
func FetchSignedURL(ctx context.Context, client *http.Client, signedURL, savePath string) error {
	if client == nil {
		client = http.DefaultClient
	}

	var body []byte
	err := retry.Do(
		func() error {
			data, fetchErr := fetchOnce(ctx, client, signedURL)
			if fetchErr != nil {
				return fetchErr
			}
			body = data
			return nil
		},
		retry.Attempts(fetchAttempts),
		retry.Delay(fetchRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var httpErr *HTTPStatusError
			if errors.As(err, &httpErr) {
				return httpErr.StatusCode >= http.StatusInternalServerError
			}
			return true
		}),
	)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0o750); err != nil {
		return fmt.Errorf("creating directory for %s: %w", savePath, err)
	}
	if err := os.WriteFile(savePath, body, 0o640); err != nil {
		return fmt.Errorf("saving to %s: %w", savePath, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("path", savePath).
		Int("bytes", len(body)).
		Msg("signed URL content saved")
	return nil
}

// HTTPStatusError reports a non-2xx response to a signed URL fetch.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

func fetchOnce(ctx context.Context, client *http.Client, signedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching signed URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	return io.ReadAll(resp.Body)
}
