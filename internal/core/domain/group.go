package domain

type GroupID int64

type Group struct {
	ID   GroupID
	Name string
}

// GroupMember joins a user to a group. A user belongs to a given group at
// most once; the store enforces the (user, group) uniqueness.
type GroupMember struct {
	ID        int64
	User      Identity
	Group     GroupID
	GroupName string
}
