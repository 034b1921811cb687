package models

import "time"

// OrderChange is an audit row consumed by the change monitor to push live
// updates over the websocket hub. Rows are written by database triggers on
// mysql and by the controllers directly where triggers are unavailable.
type OrderChange struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TableName  string    `gorm:"type:varchar(64);not null" json:"table_name"`
	RecordID   string    `gorm:"type:varchar(36);not null" json:"record_id"`
	ActionType string    `gorm:"type:varchar(16);not null" json:"action_type"`
	ChangedAt  time.Time `gorm:"not null" json:"changed_at"`
	Processed  bool      `gorm:"not null;default:false;index" json:"processed"`
}
