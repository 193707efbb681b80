package dto

// MovementEntry is one row of the newest-first movement history.
type MovementEntry struct {
	Ts          string  `json:"ts"`
	Action      string  `json:"action"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	MachineName *string `json:"machine_name"`
	Note        string  `json:"note"`
}

type MovementListResponse struct {
	Data  []MovementEntry `json:"data"`
	Limit int             `json:"limit"`
}
