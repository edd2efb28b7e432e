package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatusCode   = "status_code"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldSessionState = "session_state"
	FieldYear         = "year"
	FieldMonth        = "month"
	FieldEventID      = "event_id"
	FieldEventKind    = "event_kind"
	FieldEventTitle   = "event_title"
	FieldAmountCents  = "amount_cents"
	FieldRecurrence   = "recurrence"
	FieldSheetsRef    = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentAPI       = "api"
	ComponentSession   = "session"
	ComponentBudget    = "budget"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentExport    = "export"
	ComponentCache     = "cache"
	ComponentLocalAuth = "localauth"
)
