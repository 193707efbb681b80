package service

import (
	"errors"
	"fmt"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"
)

// Sentinel errors let handlers map failures onto the HTTP taxonomy without
// string matching: not-found → 404, validation → 400, precondition → 409.
var (
	ErrEmptySKU        = errors.New("empty sku")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidMode     = errors.New("invalid mode")
	ErrSwabNotFound    = errors.New("swab not found")
	ErrSKUTaken        = errors.New("sku already exists")
	ErrSwabCheckedOut  = errors.New("swab is currently checked out")
	ErrMachineNotFound = errors.New("machine not found")
	ErrMachineTaken    = errors.New("machine already exists")
	ErrMachineInUse    = errors.New("machine is currently assigned to a checked-out swab")
	ErrInvalidMachine  = errors.New("invalid machine")

	ErrInvalidThresholds = errors.New("invalid thresholds: require positive integers with warn < alarm")
	ErrInvalidBarcode    = errors.New("invalid barcode parameters: all values must be positive")
)

// MachineRequiredError aborts a TAKE that has no resolvable machine. It
// carries the current machine list so the caller can re-prompt inline and
// retry with a machine selected. Nothing has been written when it is
// returned.
type MachineRequiredError struct {
	Machines []dto.MachineOption
}

func (e *MachineRequiredError) Error() string {
	return fmt.Sprintf("machine required (%d machines available)", len(e.Machines))
}
