package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Response is one transport-level reply: the HTTP status and the raw body.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport issues one HTTP-style GET for a segment URL and reports the
// status and body, or a connection-level error. Implementations must be safe
// for concurrent use by multiple fetch workers.
type Transport interface {
	Get(ctx context.Context, url string) (Response, error)
}

// HTTPTransport adapts *http.Client to the Transport interface. Timeouts are
// governed by the request context, not the client.
type HTTPTransport struct {
	Client *http.Client
}

func (t *HTTPTransport) Get(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}

	return Response{StatusCode: resp.StatusCode, Body: body}, nil
}
