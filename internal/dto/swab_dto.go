package dto

type CreateSwabRequest struct {
	SKU  string `json:"sku" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type UpdateSwabRequest struct {
	SKU  string `json:"sku" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type SwabResponse struct {
	ID        int64  `json:"id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// SwabOverview is one row of the enriched listing: present-tense state plus
// the derived usage counters and threshold flags.
type SwabOverview struct {
	ID           int64   `json:"id"`
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	InStock      bool    `json:"in_stock"`
	UpdatedAt    string  `json:"updated_at"`
	MachineName  *string `json:"machine_name"`
	OpenTakenTs  *string `json:"open_taken_ts"`
	CurrentDays  int     `json:"current_days"`
	TotalDays    int     `json:"total_days"`
	Warning      bool    `json:"warning"`
	Alarm        bool    `json:"alarm"`
	LastTakeTs   *string `json:"last_take_ts"`
	LastReturnTs *string `json:"last_return_ts"`
}

type SwabListResponse struct {
	Data      []SwabOverview `json:"data"`
	WarnDays  int            `json:"warn_days"`
	AlarmDays int            `json:"alarm_days"`
}
