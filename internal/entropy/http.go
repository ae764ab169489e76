package entropy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// HTTP fetches seed bytes from a remote random byte service that answers
// GET <url>?nbytes=N with N raw bytes, such as this project's own server.
type HTTP struct {
	client *http.Client
	url    *url.URL
}

// NewHTTP returns a Source fetching from rawURL. A nil client uses a client
// with a 10 second timeout.
func NewHTTP(rawURL string, client *http.Client) (*HTTP, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("entropy: invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("entropy: unsupported url scheme %q", u.Scheme)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTP{client: client, url: u}, nil
}

// ReadSeed implements Source.
func (h *HTTP) ReadSeed(ctx context.Context, p []byte) error {
	u := *h.url
	q := u.Query()
	q.Set("nbytes", strconv.Itoa(len(p)))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("entropy: cannot build request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("entropy: request to %s failed: %w", h.url.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("entropy: %s answered %s", h.url.Host, resp.Status)
	}
	if _, err := io.ReadFull(resp.Body, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: short response from %s", ErrEndOfStream, h.url.Host)
		}
		return fmt.Errorf("entropy: reading response from %s: %w", h.url.Host, err)
	}
	return nil
}
