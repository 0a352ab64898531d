package model

type Status string

const (
	StatusDelivered      Status = "delivered"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusInRoute        Status = "in-route"
	StatusInProcess      Status = "in-process"
	StatusCancelled      Status = "cancelled"
)

// sheetStatuses maps the values used in the order sheet's Status column.
// Matching is exact and case-sensitive; the canonical lowercase forms are
// deliberately absent, so "delivered" itself maps to in-process.
var sheetStatuses = map[string]Status{
	"Delivered":               StatusDelivered,
	"Received":                StatusDelivered,
	"Out for delivery":        StatusOutForDelivery,
	"In route from warehouse": StatusInRoute,
	"In Process":              StatusInProcess,
	"cancelled":               StatusCancelled,
	"Cancelled":               StatusCancelled,
}

// MapStatus translates a sheet status into a Status. Unknown or empty
// values map to StatusInProcess.
func MapStatus(raw string) Status {
	if s, ok := sheetStatuses[raw]; ok {
		return s
	}
	return StatusInProcess
}
