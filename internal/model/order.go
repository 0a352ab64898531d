package model

// Order is one line of the exhibitor order sheet. Values are never mutated
// after parsing; a refresh replaces the whole set.
type Order struct {
	ID            string `json:"id"`
	BoothNumber   string `json:"booth_number"`
	ExhibitorName string `json:"exhibitor_name"`
	Item          string `json:"item"`
	Description   string `json:"description"`
	Color         string `json:"color"`
	Quantity      int    `json:"quantity"`
	Status        Status `json:"status"`
	OrderDate     string `json:"order_date"`
	Comments      string `json:"comments"`
	Section       string `json:"section"`
	Type          string `json:"type"`
	User          string `json:"user"`
	Hour          string `json:"hour"`
	DataSource    string `json:"data_source,omitempty"`
}

type ExhibitorSummary struct {
	Name            string `json:"name"`
	Booth           string `json:"booth"`
	TotalOrders     int    `json:"total_orders"`
	DeliveredOrders int    `json:"delivered_orders"`
}

// Stats holds per-status counts over a full order set.
type Stats struct {
	TotalOrders    int `json:"total_orders"`
	Delivered      int `json:"delivered"`
	InProcess      int `json:"in_process"`
	InRoute        int `json:"in_route"`
	OutForDelivery int `json:"out_for_delivery"`
	Cancelled      int `json:"cancelled"`
}
