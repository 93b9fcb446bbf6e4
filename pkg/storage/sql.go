package storage

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/nexora-storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLBackend stores each session key as one kv_entries row.
type SQLBackend struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLBackend(db *gorm.DB) *SQLBackend {
	return &SQLBackend{db: db, now: time.Now}
}

func (s *SQLBackend) Name() string { return "sql" }

func (s *SQLBackend) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLBackend) Session(sessionID string) KV {
	return &sqlKV{backend: s, sessionID: NormalizeSessionID(sessionID)}
}

type sqlKV struct {
	backend   *SQLBackend
	sessionID string
}

func (kv *sqlKV) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	err := kv.backend.db.WithContext(ctx).
		Where("session_id = ? AND state_key = ?", kv.sessionID, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (kv *sqlKV) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{
		SessionID: kv.sessionID,
		Key:       key,
		Value:     value,
		UpdatedAt: kv.backend.now().UTC(),
	}
	return kv.backend.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "state_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (kv *sqlKV) Remove(ctx context.Context, key string) error {
	return kv.backend.db.WithContext(ctx).
		Where("session_id = ? AND state_key = ?", kv.sessionID, key).
		Delete(&models.KVEntry{}).Error
}

// Prune deletes every session whose newest row is older than cutoff and
// reports how many rows went. It stands in for the TTL the redis backend has.
func (s *SQLBackend) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	live := s.db.Model(&models.KVEntry{}).
		Select("session_id").
		Where("updated_at >= ?", cutoff.UTC())
	res := s.db.WithContext(ctx).
		Where("session_id NOT IN (?)", live).
		Delete(&models.KVEntry{})
	return res.RowsAffected, res.Error
}
