package model

import "time"

// Movement actions. MachineID is set only on TAKE; RETURN always clears it.
const (
	ActionTake   = "TAKE"
	ActionReturn = "RETURN"
)

// Movement is one row of the append-only ledger of TAKE/RETURN events. Rows
// are never updated or deleted except via cascading swab deletion; every
// derived table (SwabState, UsageSession, UsageDay) is computable from it.
type Movement struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	SwabID    int64   `gorm:"not null;index:idx_movements_swab_action_ts,priority:1"`
	Action    string  `gorm:"not null;index:idx_movements_swab_action_ts,priority:2"`
	MachineID *int64  `gorm:"index"`
	Ts        time.Time `gorm:"column:ts;not null;index:idx_movements_swab_action_ts,priority:3"`
	Note      *string

	Swab    *Swab    `gorm:"foreignKey:SwabID;constraint:OnDelete:CASCADE"`
	Machine *Machine `gorm:"foreignKey:MachineID;constraint:OnDelete:SET NULL"`
}
