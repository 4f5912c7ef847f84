package httputil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the timeout of the clients returned by NewClient when
// none is given.
const DefaultTimeout = 30 * time.Second

// Client is a thin JSON-over-HTTP client.
type Client struct {
	http *http.Client
}

// NewClient returns a Client with the given timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{&http.Client{Timeout: timeout}}
}

// NewHTTPRequest performs an http call and returns the status code and the
// body of the response. Only GET and POST verbs are supported.
func (c *Client) NewHTTPRequest(
	ctx context.Context, method, url string, body []byte, header map[string]string,
) (int, []byte, error) {
	switch method {
	case http.MethodGet:
		return c.do(ctx, method, url, nil, header)
	case http.MethodPost:
		return c.do(ctx, method, url, body, header)
	default:
		return 0, nil, fmt.Errorf("verb not supported %s", method)
	}
}

// PostJSON posts the given JSON body.
func (c *Client) PostJSON(
	ctx context.Context, url string, body []byte, header map[string]string,
) (int, []byte, error) {
	h := map[string]string{"Content-Type": "application/json"}
	for k, v := range header {
		h[k] = v
	}
	return c.NewHTTPRequest(ctx, http.MethodPost, url, body, h)
}

func (c *Client) do(
	ctx context.Context, method, url string, body []byte, header map[string]string,
) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}

	for key, value := range header {
		req.Header.Set(key, value)
	}

	rs, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return rs.StatusCode, bodyBytes, nil
}

// IsClientError returns whether the status code is in the 4xx range.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}

// IsSuccess returns whether the status code is in the 2xx range.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
