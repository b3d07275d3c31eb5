package queueapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"boundedq/internal/queue"
)

const headerQueueLen = "X-Queue-Len"

type EnqueueRequest struct {
	Entry string `json:"entry" validate:"required,len=1,ascii"`
}

type Handler struct {
	QueueManager *queue.QueueManager
	Log          *zap.Logger
}

func NewHandler(m *queue.QueueManager, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{QueueManager: m, Log: log}
}

func (h *Handler) Enqueue(c echo.Context) error {
	queueName := c.Param("name")
	if queueName == "" {
		return c.String(http.StatusBadRequest, "invalid queue name")
	}

	var (
		entry queue.Entry
		err   error
	)
	switch c.Request().Header.Get(echo.HeaderContentType) {
	case echo.MIMEOctetStream:
		entry, err = readOctetEntry(c)
	default:
		entry, err = readJSONEntry(c)
	}
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	if err := h.QueueManager.EnqueueWithName(queueName, entry); err != nil {
		return h.queueError(c, queueName, err)
	}
	return c.NoContent(http.StatusAccepted)
}

func readOctetEntry(c echo.Context) (queue.Entry, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 2))
	if err != nil {
		return 0, errors.New("invalid request body")
	}
	if len(body) != 1 {
		return 0, errors.New("entry must be exactly one byte")
	}
	return body[0], nil
}

func readJSONEntry(c echo.Context) (queue.Entry, error) {
	var req EnqueueRequest
	if err := c.Bind(&req); err != nil {
		return 0, errors.New("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return 0, errors.New("entry must be exactly one byte")
	}
	return req.Entry[0], nil
}

func (h *Handler) Dequeue(c echo.Context) error {
	queueName := c.Param("name")
	if queueName == "" {
		return c.String(http.StatusBadRequest, "invalid queue name")
	}
	x, err := h.QueueManager.DequeueWithName(queueName)
	if err != nil {
		return h.queueError(c, queueName, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, []byte{x})
}

func (h *Handler) Peek(c echo.Context) error {
	queueName := c.Param("name")
	if queueName == "" {
		return c.String(http.StatusBadRequest, "invalid queue name")
	}
	x, err := h.QueueManager.PeekWithName(queueName)
	if err != nil {
		return h.queueError(c, queueName, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, []byte{x})
}

func (h *Handler) List(c echo.Context) error {
	queueName := c.Param("name")
	if queueName == "" {
		return c.String(http.StatusBadRequest, "invalid queue name")
	}
	entries, err := h.QueueManager.TraverseWithName(queueName)
	if err != nil {
		return h.queueError(c, queueName, err)
	}
	return c.String(http.StatusOK, string(entries))
}

func (h *Handler) Clear(c echo.Context) error {
	queueName := c.Param("name")
	if queueName == "" {
		return c.String(http.StatusBadRequest, "invalid queue name")
	}
	if err := h.QueueManager.ClearWithName(queueName); err != nil {
		// Clearing an empty queue is a conflict here, not a silent no-op.
		if queue.IsEmpty(err) {
			return c.String(http.StatusConflict, err.Error())
		}
		return h.queueError(c, queueName, err)
	}
	h.Log.Info("queue cleared", zap.String("queue", queueName))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Stats(c echo.Context) error {
	queueName := c.Param("name")
	if queueName == "" {
		return c.String(http.StatusBadRequest, "invalid queue name")
	}
	st := h.QueueManager.StatsWithName(queueName)
	c.Response().Header().Set(headerQueueLen, strconv.Itoa(st.Size))
	if c.Request().Method == http.MethodHead {
		return c.NoContent(http.StatusOK)
	}
	return c.JSON(http.StatusOK, st)
}

// queueError maps queue precondition failures onto HTTP responses.
func (h *Handler) queueError(c echo.Context, queueName string, err error) error {
	switch {
	case queue.IsFull(err):
		h.Log.Warn("queue full", zap.String("queue", queueName), zap.Error(err))
		return c.String(http.StatusConflict, err.Error())
	case queue.IsEmpty(err):
		return c.NoContent(http.StatusNoContent)
	default:
		h.Log.Error("queue operation failed", zap.String("queue", queueName), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
