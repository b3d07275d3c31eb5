package rwclient

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrQueueFull is returned by Enqueue when the service rejects the entry for lack of room.
	ErrQueueFull = errors.New("queue is full")
	// ErrQueueEmpty is returned by Clear when there is nothing to clear.
	ErrQueueEmpty = errors.New("queue is empty")
)

const defaultBackoff = 10 * time.Millisecond

type Client struct {
	QueueURL   string
	QueueName  string
	HttpClient *http.Client
	// Backoff is the wait between retries while the queue is full or empty.
	Backoff time.Duration
}

func New(queueURL, queueName string) *Client {
	return &Client{
		QueueURL:   queueURL,
		QueueName:  queueName,
		HttpClient: &http.Client{Timeout: 30 * time.Second},
		Backoff:    defaultBackoff,
	}
}

// Produce enqueues every byte read from r, waiting while the queue is full.
func (c *Client) Produce(ctx context.Context, r io.Reader) (int, error) {
	reader := bufio.NewReader(r)
	n := 0
	for {
		b, err := reader.ReadByte()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, errors.Wrap(err, "read input")
		}
		if err := c.enqueueWait(ctx, b); err != nil {
			return n, err
		}
		n++
	}
}

func (c *Client) enqueueWait(ctx context.Context, b byte) error {
	for {
		err := c.Enqueue(ctx, b)
		if !errors.Is(err, ErrQueueFull) {
			return err
		}
		if err := c.sleep(ctx); err != nil {
			return err
		}
	}
}

// Consume writes dequeued bytes to w until ctx is done or done reports true
// on an empty queue. A nil done drains until cancellation.
func (c *Client) Consume(ctx context.Context, w io.Writer, done func() bool) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		// sampled before the dequeue so an empty answer means fully drained
		finished := done != nil && done()
		b, ok, err := c.Dequeue(ctx)
		if err != nil {
			return n, err
		}
		if ok {
			if _, err := w.Write([]byte{b}); err != nil {
				return n, errors.Wrap(err, "write output")
			}
			n++
			continue
		}
		if finished {
			return n, nil
		}
		if err := c.sleep(ctx); err != nil {
			return n, err
		}
	}
}

func (c *Client) sleep(ctx context.Context) error {
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	t := time.NewTimer(backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Client) queuePath(suffix string) string {
	return fmt.Sprintf("%s/queues/%s%s", c.QueueURL, c.QueueName, suffix)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, b, nil
}

func (c *Client) Enqueue(ctx context.Context, b byte) error {
	resp, body, err := c.do(ctx, http.MethodPost, c.queuePath("/messages"), []byte{b})
	if err != nil {
		return errors.Wrap(err, "enqueue")
	}
	switch resp.StatusCode {
	case http.StatusAccepted:
		return nil
	case http.StatusConflict:
		return ErrQueueFull
	default:
		return fmt.Errorf("enqueue failed: %s: %s", resp.Status, string(body))
	}
}

// Dequeue removes the head entry. ok is false when the queue was empty.
func (c *Client) Dequeue(ctx context.Context) (b byte, ok bool, err error) {
	return c.head(ctx, http.MethodDelete, "dequeue")
}

// Peek returns the head entry without removing it.
func (c *Client) Peek(ctx context.Context) (b byte, ok bool, err error) {
	return c.head(ctx, http.MethodGet, "peek")
}

func (c *Client) head(ctx context.Context, method, op string) (byte, bool, error) {
	resp, body, err := c.do(ctx, method, c.queuePath("/messages/head"), nil)
	if err != nil {
		return 0, false, errors.Wrap(err, op)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		if len(body) != 1 {
			return 0, false, fmt.Errorf("%s: unexpected body length %d", op, len(body))
		}
		return body[0], true, nil
	case http.StatusNoContent:
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("%s failed: %s: %s", op, resp.Status, string(body))
	}
}

// Entries returns the queue content in FIFO order, nil when empty.
func (c *Client) Entries(ctx context.Context) ([]byte, error) {
	resp, body, err := c.do(ctx, http.MethodGet, c.queuePath("/messages"), nil)
	if err != nil {
		return nil, errors.Wrap(err, "entries")
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, fmt.Errorf("entries failed: %s: %s", resp.Status, string(body))
	}
}

func (c *Client) Clear(ctx context.Context) error {
	resp, body, err := c.do(ctx, http.MethodDelete, c.queuePath("/messages"), nil)
	if err != nil {
		return errors.Wrap(err, "clear")
	}
	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusConflict:
		return ErrQueueEmpty
	default:
		return fmt.Errorf("clear failed: %s: %s", resp.Status, string(body))
	}
}

func (c *Client) QueueLength(ctx context.Context) (int, error) {
	resp, body, err := c.do(ctx, http.MethodHead, c.queuePath(""), nil)
	if err != nil {
		return 0, errors.Wrap(err, "queue length")
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("queue length failed: %s: %s", resp.Status, string(body))
	}
	h := resp.Header.Get("X-Queue-Len")
	if h == "" {
		return 0, fmt.Errorf("missing X-Queue-Len header")
	}
	n, err := strconv.Atoi(h)
	if err != nil {
		return 0, errors.Wrap(err, "invalid X-Queue-Len header")
	}
	return n, nil
}
