// Package models defines the core data structures for accounts and secret records.
package models

import "time"

// DefaultCategory is assigned to records created without an explicit category.
const DefaultCategory = "Applications"

// User represents a vault account tied to an external identity.
type User struct {
	// ID is the store-assigned unique identifier for the user.
	ID int64 `db:"id" json:"id"`
	// GoogleID is the external identity subject, unique per account.
	GoogleID string `db:"google_id" json:"google_id"`
	// Email is the unique email address of the account.
	Email string `db:"email" json:"email"`
	// Name is the display name of the user.
	Name string `db:"name" json:"name"`
	// Picture is an optional avatar URL.
	Picture *string `db:"picture" json:"picture"`
	// VerifiedEmail reports whether the identity provider verified the email.
	VerifiedEmail bool `db:"verified_email" json:"verified_email"`
	// IsActive is a coarse auxiliary flag; never true while DeletedAt is set.
	IsActive bool `db:"is_active" json:"is_active"`
	// DeletedAt is the account tombstone. A nil value means the account is active.
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	// CreatedAt is when the account was provisioned.
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	// UpdatedAt is bumped by every mutating lifecycle operation.
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser carries the fields required to provision an account.
type NewUser struct {
	GoogleID      string
	Email         string
	Name          string
	Picture       *string
	VerifiedEmail bool
}

// SecretRecord is a single credential entry owned by a user.
type SecretRecord struct {
	// ID is the store-assigned identifier.
	ID int64 `db:"id" json:"id"`
	// UserID is the owning user; immutable after creation.
	UserID int64 `db:"user_id" json:"user_id"`
	// Title names the entry. Required.
	Title string `db:"title" json:"title"`
	// Username is the optional login stored in the entry.
	Username *string `db:"username" json:"username"`
	// Password is the optional secret value.
	Password *string `db:"password" json:"password"`
	// Passcode is an optional numeric secret (PINs and the like).
	Passcode *string `db:"passcode" json:"passcode"`
	// Website is the optional site the credential belongs to.
	Website *string `db:"website" json:"website"`
	// Notes holds free-form user notes.
	Notes *string `db:"notes" json:"notes"`
	// Category groups entries; defaults to DefaultCategory.
	Category string `db:"category" json:"category"`
	// MobileID is the client-assigned correlation key, unique per user.
	MobileID *int64 `db:"mobile_id" json:"mobile_id"`
	// DeletedAt is the record tombstone. Tombstoned records are excluded
	// from listing and update but are never physically removed.
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	// CreatedAt is when the record was created.
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	// UpdatedAt is bumped by every content mutation and by soft delete.
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Deleted reports whether the record is tombstoned.
func (r *SecretRecord) Deleted() bool {
	return r.DeletedAt != nil
}

// RecordData is the partial content payload of a create or update.
// Nil pointers and empty strings leave the corresponding column
// untouched on update and unset on create.
type RecordData struct {
	Title    string  `json:"title"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Passcode *string `json:"passcode"`
	Website  *string `json:"website"`
	Notes    *string `json:"notes"`
	Category string  `json:"category"`
}

// SyncOpKind is the closed set of batch operation tags.
type SyncOpKind string

const (
	// OpCreate inserts a new record stamped with the client's mobile id.
	OpCreate SyncOpKind = "CREATE"
	// OpUpdate rewrites content fields of the record matching the mobile id.
	OpUpdate SyncOpKind = "UPDATE"
	// OpDelete tombstones the record matching the mobile id.
	OpDelete SyncOpKind = "DELETE"
)

// SyncOperation is one item of a client-submitted sync batch.
type SyncOperation struct {
	// Operation selects the action to apply.
	Operation SyncOpKind `json:"operation"`
	// MobileID correlates the client-local record with its server copy.
	MobileID *int64 `json:"mobile_id"`
	// Data is the partial record payload; ignored for OpDelete.
	Data RecordData `json:"data"`
}

// SyncResult is the per-item outcome of a sync batch, positionally
// aligned with the submitted operations.
type SyncResult struct {
	Operation SyncOpKind `json:"operation"`
	Success   bool       `json:"success"`
	// Record is the affected row when one was touched. An update that
	// matched no row reports success with no record; callers must check
	// for a populated record, not just the success flag.
	Record *SecretRecord `json:"record,omitempty"`
	// Error carries the captured message of a failed item.
	Error string `json:"error,omitempty"`
}
