package domain

// TimeLayout is the canonical serialization format for device timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// DeviceRecord is the latest known status snapshot for one physical device.
// Exactly one record exists per deviceId; every ingest overwrites it wholesale.
type DeviceRecord struct {
	DeviceID          string `json:"deviceId"`
	DeviceName        string `json:"deviceName"`
	BatteryLevel      int    `json:"batteryLevel"`
	IsCharging        bool   `json:"isCharging"`
	WifiConnected     bool   `json:"wifiConnected"`
	CellularConnected bool   `json:"cellularConnected"`
	NetworkType       string `json:"networkType"`
	Location          string `json:"location"`
	CurrentApp        string `json:"currentApp"`
	LastUpdate        string `json:"lastUpdate"`
	ClientIP          string `json:"clientIP"`
}

// SessionRecord tracks one viewing browser session.
type SessionRecord struct {
	SessionID  string `json:"sessionId"`
	LastActive int64  `json:"lastActive"`
	IP         string `json:"ip"`
	UserAgent  string `json:"userAgent"`
}

// ChangeEvent describes the most recent device-state transition. Only the
// latest event is ever retained; Timestamp doubles as the consumer cursor.
type ChangeEvent struct {
	Type         string       `json:"type"`
	DeviceID     string       `json:"deviceId"`
	Device       DeviceRecord `json:"device"`
	Timestamp    int64        `json:"timestamp"`
	TotalDevices int          `json:"totalDevices"`
}
