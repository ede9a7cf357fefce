package domain

type ConferenceID int64

// Conference is immutable once created. Date is stored as dd.mm.yyyy text and
// time as free text, exactly as submitted; no timezone is modeled.
type Conference struct {
	ID    ConferenceID
	Topic string
	Date  string
	Time  string
	Link  string
	Group GroupID
}
