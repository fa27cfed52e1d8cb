package dataset

type ColumnType string

const (
	ColumnTypeText   ColumnType = "text"
	ColumnTypeNumber ColumnType = "number"
	ColumnTypeDate   ColumnType = "date"
)

// Column is static display metadata for a report type field. This is a
// fixed lookup table, not computed from data.
type Column struct {
	Field  string     `json:"field"`
	Header string     `json:"header"`
	Type   ColumnType `json:"type"`
}

var columnsByType = map[ReportType][]Column{
	ReportTypeConversations: {
		{Field: "customer_id", Header: "Customer", Type: ColumnTypeText},
		{Field: "channel", Header: "Channel", Type: ColumnTypeText},
		{Field: "country", Header: "Country", Type: ColumnTypeText},
		{Field: "carrier", Header: "Carrier", Type: ColumnTypeText},
		{Field: "status", Header: "Status", Type: ColumnTypeText},
		{Field: "message_count", Header: "Messages", Type: ColumnTypeNumber},
		{Field: "duration_seconds", Header: "Duration (s)", Type: ColumnTypeNumber},
		{Field: "created_at", Header: "Started", Type: ColumnTypeDate},
	},
	ReportTypeCustomers: {
		{Field: "name", Header: "Name", Type: ColumnTypeText},
		{Field: "email", Header: "Email", Type: ColumnTypeText},
		{Field: "country", Header: "Country", Type: ColumnTypeText},
		{Field: "carrier", Header: "Carrier", Type: ColumnTypeText},
		{Field: "plan", Header: "Plan", Type: ColumnTypeText},
		{Field: "total_calls", Header: "Total Calls", Type: ColumnTypeNumber},
		{Field: "created_at", Header: "Signed Up", Type: ColumnTypeDate},
	},
	ReportTypeErrors: {
		{Field: "code", Header: "Code", Type: ColumnTypeText},
		{Field: "message", Header: "Message", Type: ColumnTypeText},
		{Field: "severity", Header: "Severity", Type: ColumnTypeText},
		{Field: "source", Header: "Source", Type: ColumnTypeText},
		{Field: "created_at", Header: "Occurred", Type: ColumnTypeDate},
	},
	ReportTypeSentiment: {
		{Field: "conversation_id", Header: "Conversation", Type: ColumnTypeText},
		{Field: "score", Header: "Score", Type: ColumnTypeNumber},
		{Field: "label", Header: "Label", Type: ColumnTypeText},
		{Field: "created_at", Header: "Scored", Type: ColumnTypeDate},
	},
	ReportTypeUsage: {
		{Field: "category", Header: "Category", Type: ColumnTypeText},
		{Field: "carrier", Header: "Carrier", Type: ColumnTypeText},
		{Field: "calls", Header: "Calls", Type: ColumnTypeNumber},
		{Field: "minutes", Header: "Minutes", Type: ColumnTypeNumber},
		{Field: "forwards", Header: "Forwards", Type: ColumnTypeNumber},
		{Field: "created_at", Header: "Day", Type: ColumnTypeDate},
	},
	ReportTypeBilling: {
		{Field: "invoice_id", Header: "Invoice", Type: ColumnTypeText},
		{Field: "amount_cents", Header: "Amount (cents)", Type: ColumnTypeNumber},
		{Field: "currency", Header: "Currency", Type: ColumnTypeText},
		{Field: "status", Header: "Status", Type: ColumnTypeText},
		{Field: "period", Header: "Period", Type: ColumnTypeText},
		{Field: "created_at", Header: "Issued", Type: ColumnTypeDate},
	},
}

// Columns returns the display metadata for a report type. The slice is
// shared; callers must not mutate it.
func Columns(t ReportType) []Column {
	return columnsByType[t]
}

// ColumnFor looks up one column by field name.
func ColumnFor(t ReportType, field string) (Column, bool) {
	for _, col := range columnsByType[t] {
		if col.Field == field {
			return col, true
		}
	}
	return Column{}, false
}
