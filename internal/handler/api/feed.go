package api

import (
	"ForecastGate/internal/service/feed"

	"github.com/labstack/echo/v4"
)

// FeedHandler exposes the live forecast event stream over websocket.
type FeedHandler struct {
	hub *feed.Hub
}

func NewFeedHandler(hub *feed.Hub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

func (h *FeedHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/ws/forecasts", h.Subscribe)
}

func (h *FeedHandler) Subscribe(c echo.Context) error {
	h.hub.ServeWS(c.Response(), c.Request())
	return nil
}
