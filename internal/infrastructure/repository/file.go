package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"statusboard/internal/domain"
)

const (
	devicesFile  = "devices.json"
	sessionsFile = "online_users.json"
)

// FileSnapshot keeps the two documents as pretty-printed JSON files under one
// data directory. This is the default backend.
type FileSnapshot struct {
	dir string
}

func NewFileSnapshot(dir string) (*FileSnapshot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileSnapshot{dir: dir}, nil
}

func (s *FileSnapshot) SaveDevices(_ context.Context, devices map[string]domain.DeviceRecord) error {
	if devices == nil {
		devices = map[string]domain.DeviceRecord{}
	}
	return s.write(devicesFile, devices)
}

func (s *FileSnapshot) LoadDevices(_ context.Context) (map[string]domain.DeviceRecord, error) {
	devices := map[string]domain.DeviceRecord{}
	if err := s.read(devicesFile, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (s *FileSnapshot) SaveSessions(_ context.Context, sessions []domain.SessionRecord) error {
	if sessions == nil {
		sessions = []domain.SessionRecord{}
	}
	return s.write(sessionsFile, sessions)
}

func (s *FileSnapshot) LoadSessions(_ context.Context) ([]domain.SessionRecord, error) {
	var sessions []domain.SessionRecord
	if err := s.read(sessionsFile, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *FileSnapshot) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *FileSnapshot) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
