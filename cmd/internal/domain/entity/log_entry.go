package entity

type LogAction string

const (
	LogInsert LogAction = "insert"
	LogUpdate LogAction = "update"
	LogDelete LogAction = "delete"
)

// LogEntry is one append-only audit record. Payload holds the JSON
// snapshot of whatever the mutation wrote.
type LogEntry struct {
	ID        string
	Tab       string
	RefID     string
	Acao      LogAction
	Ator      string
	Payload   string
	Timestamp string
}
