package model

// Setting is a global key/value pair: usage-day thresholds, barcode rendering
// parameters, and the derived barcode settings hash used for label cache
// invalidation.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}
