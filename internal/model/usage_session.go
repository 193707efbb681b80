package model

import "time"

// UsageSession is one continuous checkout interval, from TAKE to the matching
// RETURN. ReturnedTs == nil means the session is still open; at most one open
// session per swab exists at any time.
type UsageSession struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	SwabID     int64      `gorm:"not null;index:idx_usage_sessions_open,priority:1"`
	TakenTs    time.Time  `gorm:"not null"`
	ReturnedTs *time.Time `gorm:"index:idx_usage_sessions_open,priority:2"`

	Swab *Swab `gorm:"foreignKey:SwabID;constraint:OnDelete:CASCADE"`
}
