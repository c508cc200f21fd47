package domain

import (
	"strings"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	rec := Normalize(map[string]any{})

	if rec.DeviceID != "unknown" {
		t.Errorf("deviceId = %q, want %q", rec.DeviceID, "unknown")
	}
	if rec.DeviceName != "Android Device" {
		t.Errorf("deviceName = %q, want %q", rec.DeviceName, "Android Device")
	}
	if rec.BatteryLevel != 0 {
		t.Errorf("batteryLevel = %d, want 0", rec.BatteryLevel)
	}
	if rec.IsCharging || rec.WifiConnected || rec.CellularConnected {
		t.Errorf("booleans should default to false, got %+v", rec)
	}
	if rec.NetworkType != "Unknown" {
		t.Errorf("networkType = %q, want %q", rec.NetworkType, "Unknown")
	}
	if rec.Location != "Unknown" {
		t.Errorf("location = %q, want %q", rec.Location, "Unknown")
	}
	if rec.CurrentApp != "Unknown" {
		t.Errorf("currentApp = %q, want %q", rec.CurrentApp, "Unknown")
	}
	if rec.LastUpdate != "" || rec.ClientIP != "" {
		t.Errorf("server-stamped fields must stay empty, got %+v", rec)
	}
}

func TestNormalizeClampsBattery(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{float64(-5), 0},
		{float64(200), 100},
		{float64(87), 87},
		{"42", 42},
		{"garbage", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		rec := Normalize(map[string]any{"batteryLevel": tc.in})
		if rec.BatteryLevel != tc.want {
			t.Errorf("batteryLevel %v = %d, want %d", tc.in, rec.BatteryLevel, tc.want)
		}
	}
}

func TestNormalizeTruncatesText(t *testing.T) {
	long := strings.Repeat("a", 200)
	rec := Normalize(map[string]any{"deviceName": long, "networkType": long})

	if rec.DeviceName != long[:50] {
		t.Errorf("deviceName not truncated to 50 chars, got %d", len(rec.DeviceName))
	}
	if rec.NetworkType != long[:20] {
		t.Errorf("networkType not truncated to 20 chars, got %d", len(rec.NetworkType))
	}
}

func TestNormalizeTrimsWhitespace(t *testing.T) {
	rec := Normalize(map[string]any{"deviceId": "  pixel-7  "})
	if rec.DeviceID != "pixel-7" {
		t.Errorf("deviceId = %q, want %q", rec.DeviceID, "pixel-7")
	}
}

func TestNormalizeCoercesDriftedTypes(t *testing.T) {
	rec := Normalize(map[string]any{
		"deviceId":   float64(1234),
		"isCharging": float64(1),
		"location":   "",
	})
	if rec.DeviceID != "1234" {
		t.Errorf("numeric deviceId = %q, want %q", rec.DeviceID, "1234")
	}
	if !rec.IsCharging {
		t.Error("numeric isCharging should coerce to true")
	}
	// Present-but-empty is kept as empty, only absent fields get defaults.
	if rec.Location != "" {
		t.Errorf("empty location = %q, want empty", rec.Location)
	}
}
