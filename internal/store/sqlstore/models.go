package sqlstore

import "time"

// KVSlot is one named durable value.
type KVSlot struct {
	Key       string    `gorm:"primaryKey;type:varchar(128)"`
	Value     []byte    `gorm:"type:longblob"`
	UpdatedAt time.Time
}

func (KVSlot) TableName() string { return "kv_slots" }

// RiskEvent is the audit row written for every assistant reply.
type RiskEvent struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(26);index;not null" json:"session_id"`
	MessageID string    `gorm:"type:varchar(26);uniqueIndex;not null" json:"message_id"`
	Score     int       `gorm:"not null" json:"score"`
	Severity  string    `gorm:"type:varchar(16);index;not null" json:"severity"`
	Source    string    `gorm:"type:varchar(16);not null" json:"source"`
	Intent    string    `gorm:"type:varchar(32)" json:"intent"`
	At        time.Time `gorm:"index" json:"at"`
	CreatedAt time.Time `json:"created_at"`
}

func (RiskEvent) TableName() string { return "risk_events" }

// Models lists every table this package owns, for migrations.
func Models() []any {
	return []any{&KVSlot{}, &RiskEvent{}}
}
