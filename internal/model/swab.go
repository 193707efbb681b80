package model

import "time"

// Swab is a reusable physical item tracked by the system. The SKU is the
// immutable business key printed on the barcode label; ID is a surrogate key.
type Swab struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	SKU       string `gorm:"column:sku;uniqueIndex;not null"`
	Name      string `gorm:"index;not null"`
	CreatedAt time.Time
}
