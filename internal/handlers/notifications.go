package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/example/driveschool/internal/middleware"
	"github.com/example/driveschool/internal/notify"
)

// NotificationHandler streams booking events to instructors over SSE.
type NotificationHandler struct {
	bus *notify.Bus
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(bus *notify.Bus) *NotificationHandler {
	return &NotificationHandler{bus: bus}
}

// Stream holds the connection open and writes one SSE data frame per
// published event addressed to the authenticated instructor. A periodic
// comment line keeps intermediaries from closing the idle connection.
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	instructorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	events := h.bus.Subscribe(instructorID)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.bus.Unsubscribe(events)

		keepalive := time.NewTicker(30 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case ev, open := <-events:
				if !open {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepalive.C:
				fmt.Fprint(w, ": keepalive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
