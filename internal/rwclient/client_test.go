package rwclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientProduceConsume(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		capacity int
	}{
		{"FitsInQueue", "abc", 26},
		{"LongerThanCapacity_Backpressure", "the quick brown fox jumps over the lazy dog\n", 3},
		{"CapacityOne", "xyz", 1},
		{"EmptyInput_ProducesNoOutput", "", 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newQueueServer(t, tc.capacity)
			c := newHTTPTestClient(ts.URL, nil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			produced := make(chan struct{})
			var out bytes.Buffer
			consumerDone := make(chan error, 1)
			go func() {
				_, err := c.Consume(ctx, &out, func() bool {
					select {
					case <-produced:
						return true
					default:
						return false
					}
				})
				consumerDone <- err
			}()

			n, err := c.Produce(ctx, strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, len(tc.input), n)
			close(produced)

			require.NoError(t, <-consumerDone)
			assert.Equal(t, tc.input, out.String())
		})
	}
}

func TestClientProduce_CancelledWhileFull(t *testing.T) {
	ts := newQueueServer(t, 2)
	c := newHTTPTestClient(ts.URL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	n, err := c.Produce(ctx, strings.NewReader("abcd"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, n)
}

func TestClientEnqueue(t *testing.T) {
	cases := []struct {
		name         string
		statusCode   int
		body         string
		transportErr error
		wantErr      error
		expectErr    bool
	}{
		{name: "Accepted", statusCode: http.StatusAccepted},
		{name: "Full", statusCode: http.StatusConflict, body: "queue: enqueue: queue is full", wantErr: ErrQueueFull, expectErr: true},
		{name: "ServerError", statusCode: http.StatusInternalServerError, body: "boom", expectErr: true},
		{name: "TransportError", transportErr: errors.New("dial failed"), expectErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/queues/q/messages", r.URL.Path)
				assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
				w.WriteHeader(tc.statusCode)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			err := newHTTPTestClient(ts.URL, tc.transportErr).Enqueue(context.Background(), 'a')
			if !tc.expectErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestClientHeadOperations(t *testing.T) {
	ts := newQueueServer(t, 4)
	c := newHTTPTestClient(ts.URL, nil)
	ctx := context.Background()

	_, ok, err := c.Peek(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := c.Entries(ctx)
	require.NoError(t, err)
	assert.Nil(t, entries)

	for _, b := range []byte("go!") {
		require.NoError(t, c.Enqueue(ctx, b))
	}

	b, ok, err := c.Peek(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, byte('g'), b)

	entries, err = c.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("go!"), entries)

	n, err := c.QueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	b, ok, err = c.Dequeue(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, byte('g'), b)

	require.NoError(t, c.Clear(ctx))
	assert.ErrorIs(t, c.Clear(ctx), ErrQueueEmpty)

	n, err = c.QueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestClientQueueLength_Errors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"MissingHeader", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }},
		{"BadHeader", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Queue-Len", "many")
			w.WriteHeader(http.StatusOK)
		}},
		{"BadStatus", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()
			_, err := newHTTPTestClient(ts.URL, nil).QueueLength(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestClientDequeue_TransportError(t *testing.T) {
	c := newHTTPTestClient("http://example.invalid", errors.New("network down"))
	_, _, err := c.Dequeue(context.Background())
	assert.ErrorContains(t, err, "network down")
}
