package model

type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

func (s Status) String() string { return string(s) }

// Outcome is the explicit result of one reconciliation or forward
// operation. Handlers and tests assert on it instead of scraping logs.
type Outcome struct {
	Status  Status
	EventID string // external calendar event id, when one was touched
	Err     error
}

func Applied(eventID string) Outcome { return Outcome{Status: StatusApplied, EventID: eventID} }
func Skipped() Outcome               { return Outcome{Status: StatusSkipped} }
func Failed(err error) Outcome       { return Outcome{Status: StatusFailed, Err: err} }
