package model

// UsageDay records one distinct calendar day during which a swab was in
// active use. Repeated take/return cycles on the same day contribute a single
// row; the (swab_id, day) pair is unique. Day is a YYYY-MM-DD key.
type UsageDay struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	SwabID int64  `gorm:"not null;uniqueIndex:idx_usage_days_swab_day,priority:1"`
	Day    string `gorm:"type:varchar(10);not null;uniqueIndex:idx_usage_days_swab_day,priority:2"`

	Swab *Swab `gorm:"foreignKey:SwabID;constraint:OnDelete:CASCADE"`
}
