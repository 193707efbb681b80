package model

// Machine is a checkout destination for swabs.
type Machine struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex;not null"`
}
