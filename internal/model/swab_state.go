package model

import "time"

// SwabState is the present-tense projection of a swab's position: one row per
// swab, upserted on every scan. InStock=true means the swab sits in central
// stock; false means it is checked out to MachineID.
//
// Invariant: InStock == true ⇒ MachineID == nil.
//
// This table is a materialization of the latest movement and must always be
// re-derivable by replaying the movement ledger; it is never the sole record
// of truth.
type SwabState struct {
	SwabID    int64  `gorm:"primaryKey"`
	InStock   bool   `gorm:"not null;default:true"`
	MachineID *int64 `gorm:"index"`
	UpdatedAt time.Time

	Swab    *Swab    `gorm:"foreignKey:SwabID;constraint:OnDelete:CASCADE"`
	Machine *Machine `gorm:"foreignKey:MachineID;constraint:OnDelete:SET NULL"`
}
