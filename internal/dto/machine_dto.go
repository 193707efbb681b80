package dto

// MachineOption is the minimal representation used in pickers and the
// machine-required scan response.
type MachineOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CreateMachineRequest struct {
	Name string `json:"name" validate:"required"`
}

type MachineListResponse struct {
	OK       bool            `json:"ok"`
	Machines []MachineOption `json:"machines"`
}
