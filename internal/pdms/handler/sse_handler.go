package handler

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/sse"
)

const sseHeartbeat = 30 * time.Second

// SSEHandler 操作日志实时推送
type SSEHandler struct {
	hub *sse.Hub
}

func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream GET /events/stream?token=&types=warning,danger
// types 为空时推送全部级别
func (h *SSEHandler) Stream(c *gin.Context) {
	client := &sse.Client{
		ID:     entity.NewID(),
		UserID: GetUserID(c),
		Events: make(chan sse.Event, 64),
	}
	wanted := parseLogTypes(c.Query("types"))

	h.hub.Register(client)
	defer h.hub.Unregister(client.ID)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("connected", gin.H{"client_id": client.ID})
	c.Writer.Flush()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case event, ok := <-client.Events:
			if !ok {
				return false
			}
			if len(wanted) > 0 && !wanted[strings.TrimPrefix(event.EventType, "activity.")] {
				return true
			}
			c.SSEvent(event.EventType, event.Data)
			return true
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			return true
		}
	})
}

func parseLogTypes(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out[t] = true
		}
	}
	return out
}
