package models

import "errors"

// Lifecycle and sync failures surfaced to callers. Handlers map these to
// transport status codes; anything else is treated as a store fault.
var (
	// ErrValidation marks a request rejected before touching the store.
	ErrValidation = errors.New("required request fields are missing")
	// ErrDuplicateAccount means signup hit an existing email or google id,
	// regardless of that row's lifecycle state.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrAccountNotFound means no row matched the signin identity.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountDeleted means the identity matched a tombstoned account;
	// the caller should reactivate instead of retrying signin.
	ErrAccountDeleted = errors.New("account has been deleted")
	// ErrAccountNotFoundOrDeleted means delete-account found no active match.
	ErrAccountNotFoundOrDeleted = errors.New("account not found or already deleted")
	// ErrNoDeletedAccount means reactivation found no tombstoned row for the email.
	ErrNoDeletedAccount = errors.New("no deleted account found for this email")
	// ErrRecordNotFound means a direct update or delete matched no live record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidSyncRequest marks a malformed batch envelope; no item is processed.
	ErrInvalidSyncRequest = errors.New("user id and operations list are required")
)
