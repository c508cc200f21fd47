package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"statusboard/internal/domain"
)

const (
	devicesKey  = "statusboard:devices"
	sessionsKey = "statusboard:online_users"
)

// RedisSnapshot stores each document as one JSON string value. Useful when
// the server runs somewhere without a writable disk.
type RedisSnapshot struct {
	client *redis.Client
}

func NewRedisSnapshot(client *redis.Client) *RedisSnapshot {
	return &RedisSnapshot{client: client}
}

func (s *RedisSnapshot) SaveDevices(ctx context.Context, devices map[string]domain.DeviceRecord) error {
	if devices == nil {
		devices = map[string]domain.DeviceRecord{}
	}
	return s.set(ctx, devicesKey, devices)
}

func (s *RedisSnapshot) LoadDevices(ctx context.Context) (map[string]domain.DeviceRecord, error) {
	devices := map[string]domain.DeviceRecord{}
	if err := s.get(ctx, devicesKey, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (s *RedisSnapshot) SaveSessions(ctx context.Context, sessions []domain.SessionRecord) error {
	if sessions == nil {
		sessions = []domain.SessionRecord{}
	}
	return s.set(ctx, sessionsKey, sessions)
}

func (s *RedisSnapshot) LoadSessions(ctx context.Context) ([]domain.SessionRecord, error) {
	var sessions []domain.SessionRecord
	if err := s.get(ctx, sessionsKey, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *RedisSnapshot) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *RedisSnapshot) get(ctx context.Context, key string, v any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
