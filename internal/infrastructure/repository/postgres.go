package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"statusboard/internal/domain"
)

type snapshotRow struct {
	Name    string `gorm:"primaryKey;size:32"`
	Payload []byte
}

func (snapshotRow) TableName() string { return "snapshots" }

// PostgresSnapshot keeps one row per document. Rewrite-wholesale semantics
// are preserved: every save replaces the row's payload.
type PostgresSnapshot struct {
	db *gorm.DB
}

func NewPostgresSnapshot(db *gorm.DB) (*PostgresSnapshot, error) {
	if err := db.AutoMigrate(&snapshotRow{}); err != nil {
		return nil, fmt.Errorf("migrate snapshots: %w", err)
	}
	return &PostgresSnapshot{db: db}, nil
}

func (s *PostgresSnapshot) SaveDevices(ctx context.Context, devices map[string]domain.DeviceRecord) error {
	if devices == nil {
		devices = map[string]domain.DeviceRecord{}
	}
	return s.save(ctx, "devices", devices)
}

func (s *PostgresSnapshot) LoadDevices(ctx context.Context) (map[string]domain.DeviceRecord, error) {
	devices := map[string]domain.DeviceRecord{}
	if err := s.load(ctx, "devices", &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (s *PostgresSnapshot) SaveSessions(ctx context.Context, sessions []domain.SessionRecord) error {
	if sessions == nil {
		sessions = []domain.SessionRecord{}
	}
	return s.save(ctx, "online_users", sessions)
}

func (s *PostgresSnapshot) LoadSessions(ctx context.Context) ([]domain.SessionRecord, error) {
	var sessions []domain.SessionRecord
	if err := s.load(ctx, "online_users", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *PostgresSnapshot) save(ctx context.Context, name string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	row := snapshotRow{Name: name, Payload: payload}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func (s *PostgresSnapshot) load(ctx context.Context, name string, v any) error {
	var row snapshotRow
	err := s.db.WithContext(ctx).First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	if len(row.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(row.Payload, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
