// Package service provides account lifecycle business logic,
// delegating persistence to an AccountRepository.
package service

import (
	"context"

	"github.com/avoronin/secretvault/internal/models"
)

// AccountRepository defines the persistence operations
// required by the account lifecycle service.
type AccountRepository interface {
	// FindByEmailOrGoogleID returns any user matching either identity key,
	// regardless of lifecycle state, or (nil, nil).
	FindByEmailOrGoogleID(ctx context.Context, email, googleID string) (*models.User, error)
	// Insert provisions a new active user.
	Insert(ctx context.Context, nu models.NewUser) (*models.User, error)
	// FindActive returns the active user matching both identity keys, or (nil, nil).
	FindActive(ctx context.Context, email, googleID string) (*models.User, error)
	// FindDeleted returns the tombstoned user matching both identity keys, or (nil, nil).
	FindDeleted(ctx context.Context, email, googleID string) (*models.User, error)
	// FindActiveByEmail returns the is_active user for the email, or (nil, nil).
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	// Touch bumps updated_at on the user row.
	Touch(ctx context.Context, id int64) error
	// MarkDeleted tombstones the active user and reports whether a row transitioned.
	MarkDeleted(ctx context.Context, email, googleID string) (bool, error)
	// Reactivate clears the tombstone for the email and returns the restored
	// user, or (nil, nil) when no tombstoned row exists.
	Reactivate(ctx context.Context, email string) (*models.User, error)
}

// AccountService owns the account state machine: Active and Deleted, with
// one-step transitions in either direction. Accounts are never hard-deleted.
type AccountService struct {
	repo AccountRepository
}

// NewAccountService constructs an AccountService using the provided repository.
func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// Signup provisions a new active account. Any existing row matching the email
// or the google id blocks the signup with models.ErrDuplicateAccount, even
// when that row is tombstoned; a deleted user comes back via Reactivate.
func (s *AccountService) Signup(ctx context.Context, nu models.NewUser) (*models.User, error) {
	if nu.Email == "" || nu.GoogleID == "" || nu.Name == "" {
		return nil, models.ErrValidation
	}

	existing, err := s.repo.FindByEmailOrGoogleID(ctx, nu.Email, nu.GoogleID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrDuplicateAccount
	}

	return s.repo.Insert(ctx, nu)
}

// Signin resolves the identity to an active account and records the visit by
// bumping updated_at. An identity matching only a tombstoned row fails with
// models.ErrAccountDeleted so the caller can offer reactivation; no match at
// all fails with models.ErrAccountNotFound.
func (s *AccountService) Signin(ctx context.Context, email, googleID string) (*models.User, error) {
	if email == "" || googleID == "" {
		return nil, models.ErrValidation
	}

	user, err := s.repo.FindActive(ctx, email, googleID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if err := s.repo.Touch(ctx, user.ID); err != nil {
			return nil, err
		}
		return user, nil
	}

	deleted, err := s.repo.FindDeleted(ctx, email, googleID)
	if err != nil {
		return nil, err
	}
	if deleted != nil {
		return nil, models.ErrAccountDeleted
	}
	return nil, models.ErrAccountNotFound
}

// LookupByEmail is a pre-flight existence check. It filters on is_active only.
func (s *AccountService) LookupByEmail(ctx context.Context, email string) (bool, *models.User, error) {
	user, err := s.repo.FindActiveByEmail(ctx, email)
	if err != nil {
		return false, nil, err
	}
	return user != nil, user, nil
}

// DeleteAccount transitions the account from Active to Deleted. Repeating the
// call after a successful transition fails with
// models.ErrAccountNotFoundOrDeleted rather than double-transitioning.
func (s *AccountService) DeleteAccount(ctx context.Context, email, googleID string) error {
	if email == "" || googleID == "" {
		return models.ErrValidation
	}

	ok, err := s.repo.MarkDeleted(ctx, email, googleID)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrAccountNotFoundOrDeleted
	}
	return nil
}

// ReactivateAccount transitions the account from Deleted back to Active.
// Reactivation is email-scoped only, an intentional asymmetry with delete.
func (s *AccountService) ReactivateAccount(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, models.ErrValidation
	}

	user, err := s.repo.Reactivate(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.ErrNoDeletedAccount
	}
	return user, nil
}
