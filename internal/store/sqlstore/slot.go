package sqlstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot stores one value in kv_slots under key.
type Slot struct {
	db  *gorm.DB
	key string
}

func NewSlot(db *gorm.DB, key string) *Slot {
	return &Slot{db: db, key: key}
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	var row KVSlot
	err := s.db.WithContext(ctx).Where(&KVSlot{Key: s.key}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.Value, nil
}

func (s *Slot) Write(ctx context.Context, data []byte) error {
	row := KVSlot{Key: s.key, Value: data, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}
