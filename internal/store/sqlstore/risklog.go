package sqlstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RiskLog struct {
	db *gorm.DB
}

func NewRiskLog(db *gorm.DB) *RiskLog {
	return &RiskLog{db: db}
}

// Insert stores ev. Redelivered events (same message id) are ignored.
func (r *RiskLog) Insert(ctx context.Context, ev *RiskEvent) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(ev).Error
}

// ListBySession returns the session's events, newest first.
func (r *RiskLog) ListBySession(ctx context.Context, sessionID string, limit int) ([]RiskEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []RiskEvent
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
