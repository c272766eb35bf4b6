package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EventStreamer interface {
	Stream(ctx context.Context, storeID string, w io.Writer) error
}

// 管理画面向けのリアルタイム通知（text/event-stream）
type SSEHandler struct {
	streamer EventStreamer
	log      *zap.Logger
}

func NewSSEHandler(streamer EventStreamer, log *zap.Logger) *SSEHandler {
	return &SSEHandler{streamer: streamer, log: log}
}

func (h *SSEHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/sse", h.stream)
}

func (h *SSEHandler) stream(c echo.Context) error {
	storeID, ok := storeIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	//切断でctxがcancelされると戻る
	if err := h.streamer.Stream(c.Request().Context(), storeID, res); err != nil {
		h.log.Info("sse stream closed", zap.String("store_id", storeID), zap.Error(err))
	}
	return nil
}
