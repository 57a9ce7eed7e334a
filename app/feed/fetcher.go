package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const MaxResponseSize = 4 << 20

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s", e.Code, e.Status)
}

// Page is a successful response body with the headers needed to decode it.
type Page struct {
	Status      int
	ContentType string
	Body        []byte
}

// Fetcher performs bounded GET requests with a fixed default User-Agent.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Get fetches url within timeout. Entries in headers override the default
// User-Agent. The body is returned only for 2xx responses.
func (f *Fetcher) Get(ctx context.Context, url string, timeout time.Duration, headers map[string]string) (int, []byte, error) {
	page, err := f.Fetch(ctx, url, timeout, headers)
	if page == nil {
		return 0, nil, err
	}
	return page.Status, page.Body, err
}

// Fetch is Get that also reports the response Content-Type. On a non-2xx
// response the returned Page carries only the status.
func (f *Fetcher) Fetch(ctx context.Context, url string, timeout time.Duration, headers map[string]string) (*Page, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	page := &Page{Status: resp.StatusCode}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return page, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return page, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > MaxResponseSize {
		return page, fmt.Errorf("response body exceeds %d bytes", MaxResponseSize)
	}

	page.ContentType = resp.Header.Get("Content-Type")
	page.Body = data
	return page, nil
}
