package domain

import "errors"

var (
	ErrDuplicateGroupName = errors.New("group name already exists")
	ErrGroupNotFound      = errors.New("group not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyMember      = errors.New("user is already a member of the group")
	ErrSessionNotFound    = errors.New("dialog session not found")

	// ErrStoreBusy marks a transient lock/busy rejection from the store. It is
	// never a data-integrity problem and must stay distinguishable from the
	// constraint errors above.
	ErrStoreBusy = errors.New("store is busy")
)
