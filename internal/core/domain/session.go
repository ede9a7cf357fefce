package domain

// DialogState tracks how far a conference-creation dialog has progressed.
type DialogState string

const (
	StateIdle          DialogState = "idle"
	StateAwaitingTopic DialogState = "awaiting_topic"
	StateAwaitingDate  DialogState = "awaiting_date"
	StateAwaitingLink  DialogState = "awaiting_link"
)

// Session is the per-identity record of dialog progress and the conference
// fields collected so far. Fields are filled one step at a time and are only
// committed together, at the final transition.
type Session struct {
	Identity Identity    `json:"identity"`
	State    DialogState `json:"state"`
	Group    GroupID     `json:"group,omitempty"`
	Topic    string      `json:"topic,omitempty"`
	Date     string      `json:"date,omitempty"`
	Time     string      `json:"time,omitempty"`
}
