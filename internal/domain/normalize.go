package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Field limits and defaults for inbound status reports. Clients drift, so no
// absent or oddly-typed field is ever a hard error.
const (
	maxDeviceID    = 50
	maxDeviceName  = 50
	maxNetworkType = 20
	maxLocation    = 50
	maxCurrentApp  = 50

	defaultDeviceID    = "unknown"
	defaultDeviceName  = "Android Device"
	defaultNetworkType = "Unknown"
	defaultLocation    = "Unknown"
	defaultCurrentApp  = "Unknown"
)

// Normalize turns a raw decoded report into a DeviceRecord. Every field is
// defaulted, trimmed, truncated and clamped independently. LastUpdate and
// ClientIP are left empty; the caller stamps them.
func Normalize(raw map[string]any) DeviceRecord {
	return DeviceRecord{
		DeviceID:          cleanText(raw["deviceId"], defaultDeviceID, maxDeviceID),
		DeviceName:        cleanText(raw["deviceName"], defaultDeviceName, maxDeviceName),
		BatteryLevel:      clampInt(raw["batteryLevel"], 0, 100),
		IsCharging:        asBool(raw["isCharging"]),
		WifiConnected:     asBool(raw["wifiConnected"]),
		CellularConnected: asBool(raw["cellularConnected"]),
		NetworkType:       cleanText(raw["networkType"], defaultNetworkType, maxNetworkType),
		Location:          cleanText(raw["location"], defaultLocation, maxLocation),
		CurrentApp:        cleanText(raw["currentApp"], defaultCurrentApp, maxCurrentApp),
	}
}

func cleanText(v any, def string, max int) string {
	if v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return truncate(strings.TrimSpace(s), max)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max])
	}
	return s
}

func clampInt(v any, lo, hi int) int {
	n := asInt(v)
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func asInt(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return int(t)
	case int:
		return t
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false
		}
		return b
	default:
		return false
	}
}
