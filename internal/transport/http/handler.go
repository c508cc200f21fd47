package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"statusboard/internal/config"
	"statusboard/internal/domain"
	"statusboard/internal/notifier"
	"statusboard/internal/store"
)

type Handler struct {
	devices  *store.DeviceStore
	presence *store.PresenceTracker
	events   *notifier.Notifier
	cfg      config.Config
	loc      *time.Location
}

func NewHandler(devices *store.DeviceStore, presence *store.PresenceTracker, events *notifier.Notifier, cfg config.Config, loc *time.Location) *Handler {
	return &Handler{
		devices:  devices,
		presence: presence,
		events:   events,
		cfg:      cfg,
		loc:      loc,
	}
}

// Status ingests one device report: normalize, stamp server fields, overwrite
// the stored record and publish a change event for the live streams.
func (h *Handler) Status(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid JSON: " + err.Error()})
		return
	}
	if raw == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid data format"})
		return
	}

	now := time.Now()
	rec := domain.Normalize(raw)
	rec.LastUpdate = now.In(h.loc).Format(domain.TimeLayout)
	rec.ClientIP = c.ClientIP()

	if err := h.devices.Put(c, rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save device data"})
		return
	}

	h.events.Publish(domain.ChangeEvent{
		Type:         "device_update",
		DeviceID:     rec.DeviceID,
		Device:       rec,
		Timestamp:    now.Unix(),
		TotalDevices: h.devices.Count(),
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "status updated"})
}

// Devices prunes expired records and returns the survivors.
func (h *Handler) Devices(c *gin.Context) {
	devices, _ := h.devices.PruneExpired(c, time.Now())
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"devices":   devices,
		"count":     len(devices),
		"timestamp": time.Now().Unix(),
	})
}

type onlineReq struct {
	SessionID string `json:"sessionId"`
}

func (h *Handler) UpdateOnline(c *gin.Context) {
	var req onlineReq
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid session data"})
		return
	}

	count, err := h.presence.Heartbeat(c, req.SessionID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save session data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "onlineUsers": count})
}

func (h *Handler) OnlineUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "onlineUsers": h.presence.Count(c)})
}

func (h *Handler) ServerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"info": gin.H{
			"status":          "running",
			"server_time":     time.Now().In(h.loc).Format(domain.TimeLayout),
			"go_version":      runtime.Version(),
			"online_devices":  h.devices.Count(),
			"online_users":    h.presence.Count(c),
			"server_software": "gin/" + gin.Version,
		},
	})
}
