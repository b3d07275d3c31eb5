package rwclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boundedq/internal/queue"
	"boundedq/internal/queueapi"
)

type errorRoundTripper struct{ err error }

func (e errorRoundTripper) RoundTrip(*http.Request) (*http.Response, error) { return nil, e.err }

func newHTTPTestClient(tsURL string, rtErr error) *Client {
	c := New(tsURL, "q")
	c.Backoff = time.Millisecond
	if rtErr != nil {
		c.HttpClient = &http.Client{Transport: errorRoundTripper{err: rtErr}}
	}
	return c
}

// newQueueServer starts the queue service backed by queues of the given capacity.
func newQueueServer(t *testing.T, capacity int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(queueapi.RegisterRoutes(queue.NewQueueManager(capacity), nil))
	t.Cleanup(ts.Close)
	return ts
}
