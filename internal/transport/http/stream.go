package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Events runs one broadcaster loop per open connection. The loop never queues
// per-subscriber: it polls the single-slot notifier with a timestamp cursor,
// so a stalled subscriber only ever misses intermediate states, never blocks
// ingest or other subscribers.
//
// On connect the client gets a connected event and a full initial_data
// snapshot; catch-up after reconnect is the snapshot, not backlog replay, so
// a Last-Event-ID resume hint only seeds the cursor.
func (h *Handler) Events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	cursor := int64(0)
	if v := c.GetHeader("Last-Event-ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cursor = id
		}
	}

	clientID := "sse_" + uuid.NewString()
	log.Printf("sse connected: %s, last-event-id: %d", clientID, cursor)

	now := time.Now().Unix()
	if err := writeEvent(c.Writer, "connected", now, gin.H{
		"type":      "connected",
		"clientId":  clientID,
		"timestamp": now,
	}); err != nil {
		return
	}

	devices := h.devices.List()
	if err := writeEvent(c.Writer, "initial_data", now, gin.H{
		"type":      "initial_data",
		"devices":   devices,
		"count":     len(devices),
		"timestamp": now,
	}); err != nil {
		return
	}

	heartbeatSecs := int64(h.cfg.HeartbeatInterval / time.Second)
	if heartbeatSecs <= 0 {
		heartbeatSecs = 3
	}

	ctx := c.Request.Context()
	var lastBeat int64
	for {
		select {
		case <-ctx.Done():
			log.Printf("sse disconnected: %s", clientID)
			return
		case <-time.After(h.cfg.PollInterval):
		}

		// Heartbeat on wall-clock seconds divisible by the interval, at
		// most once per such second.
		nowSec := time.Now().Unix()
		if nowSec%heartbeatSecs == 0 && nowSec != lastBeat {
			if err := writeEvent(c.Writer, "heartbeat", nowSec, gin.H{
				"type":      "heartbeat",
				"timestamp": nowSec,
			}); err != nil {
				return
			}
			lastBeat = nowSec
		}

		if ev, ok := h.events.PollSince(cursor); ok {
			if err := writeEvent(c.Writer, ev.Type, ev.Timestamp, ev); err != nil {
				return
			}
			cursor = ev.Timestamp
		}
	}
}

// writeEvent frames one event as "id: <ts>\nevent: <type>\ndata: <json>\n\n"
// and flushes immediately. The event id is the timestamp; clients use it as
// their resume cursor.
func writeEvent(w gin.ResponseWriter, event string, id int64, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, event, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
