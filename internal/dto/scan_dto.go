package dto

// ScanRequest is the single entry point payload for TAKE/RETURN/TOGGLE scans.
// Mode defaults to TOGGLE when omitted; machine_id is required only when the
// resolved action is TAKE.
type ScanRequest struct {
	SKU       string `json:"sku" validate:"required"`
	Mode      string `json:"mode"`
	MachineID *int64 `json:"machine_id"`
}

// ScanResponse is returned after a successful transition, enriched with the
// post-transition usage accounting and threshold flags.
type ScanResponse struct {
	OK              bool    `json:"ok"`
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	Action          string  `json:"action"`
	InStock         bool    `json:"in_stock"`
	MachineName     *string `json:"machine_name"`
	Ts              string  `json:"ts"`
	DaysSession     *int    `json:"days_session"`
	AddedUniqueDays int     `json:"added_unique_days"`
	CurrentDays     int     `json:"current_days"`
	TotalDays       int     `json:"total_days"`
	WarnDays        int     `json:"warn_days"`
	AlarmDays       int     `json:"alarm_days"`
	Warning         bool    `json:"warning"`
	Alarm           bool    `json:"alarm"`
}

// ScanFailure is the generic scan error envelope (not-found, invalid mode,
// invalid machine).
type ScanFailure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// MachineRequiredResponse is the 409 envelope returned when a TAKE lacks a
// machine: the caller re-prompts with the embedded machine list and retries.
type MachineRequiredResponse struct {
	OK          bool            `json:"ok"`
	NeedMachine bool            `json:"need_machine"`
	Message     string          `json:"message"`
	Machines    []MachineOption `json:"machines"`
	SKU         string          `json:"sku"`
	Mode        string          `json:"mode"`
}
