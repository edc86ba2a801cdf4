package changefeed

// Actions mirror the trigger's TG_OP values.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Event is one row-level mutation notification from the store. Delivery is
// at-least-once and unordered; consumers must react idempotently (full
// recompute or cache invalidation, never incremental patching).
type Event struct {
	Table           string `json:"table"`
	Action          string `json:"action"`
	RecordID        string `json:"record_id,omitempty"`
	AppointmentDate string `json:"appointment_date,omitempty"`
	CategorySlug    string `json:"category_slug,omitempty"`
}
