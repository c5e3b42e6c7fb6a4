// internal/domain/homework/homework.go
package homework

import "encoding/json"

// Status is the review status code reported by the Practicum API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// verdicts maps every known status to the sentence sent to the chat.
// Never mutated after package init.
var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the human-readable verdict for a status.
func Verdict(status Status) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// KnownStatuses lists the statuses the bot understands.
func KnownStatuses() []Status {
	return []Status{StatusApproved, StatusReviewing, StatusRejected}
}

// Homework is a single record from the "homeworks" list.
type Homework struct {
	Name   string
	Status Status
}

// Response is the validated shape of one API answer.
// Homeworks elements stay raw; ParseStatus decodes them on demand.
type Response struct {
	Homeworks   []json.RawMessage
	CurrentDate *int64 // nil when the server did not send current_date
}
