// Package service provides business-logic services for the account lifecycle
// and secret record synchronization, delegating persistence to repository
// interfaces.
package service

import (
	"context"
	"fmt"

	"github.com/avoronin/secretvault/internal/models"
)

// RecordRepository defines the persistence operations needed by the SyncService.
type RecordRepository interface {
	// Insert stores a new record for the user; mobileID may be nil.
	Insert(ctx context.Context, userID int64, data models.RecordData, mobileID *int64) (*models.SecretRecord, error)
	// ListByUser returns the user's live records, newest first.
	ListByUser(ctx context.Context, userID int64) ([]models.SecretRecord, error)
	// UpdateByID rewrites content fields by primary key, or returns (nil, nil).
	UpdateByID(ctx context.Context, id int64, data models.RecordData) (*models.SecretRecord, error)
	// SoftDeleteByID tombstones by primary key and reports whether a row changed.
	SoftDeleteByID(ctx context.Context, id int64) (bool, error)
	// UpdateByMobileID rewrites content fields by correlation key, or returns (nil, nil).
	UpdateByMobileID(ctx context.Context, userID, mobileID int64, data models.RecordData) (*models.SecretRecord, error)
	// SoftDeleteByMobileID tombstones by correlation key without an existence check.
	SoftDeleteByMobileID(ctx context.Context, userID, mobileID int64) error
}

// SyncService reconciles client-submitted record batches against the store
// and serves the direct record operations.
type SyncService struct {
	repo RecordRepository
}

// NewSyncService constructs a SyncService with the provided RecordRepository.
func NewSyncService(repo RecordRepository) *SyncService {
	return &SyncService{repo: repo}
}

// SyncBatch applies the submitted operations strictly in order and returns
// one result per operation, positionally aligned with the input. Processing
// is best-effort per item: a store failure on one item is captured in its
// result and the remaining items still run. Each row operation commits
// independently; a batch that fails partway leaves the earlier items applied.
//
// The envelope itself is validated first: a zero userID or an absent
// operations list fails the whole call with models.ErrInvalidSyncRequest
// before any item is processed. An empty (but present) list is valid.
func (s *SyncService) SyncBatch(ctx context.Context, userID int64, ops []models.SyncOperation) ([]models.SyncResult, error) {
	if userID == 0 || ops == nil {
		return nil, models.ErrInvalidSyncRequest
	}

	results := make([]models.SyncResult, 0, len(ops))
	for _, op := range ops {
		results = append(results, s.applyOne(ctx, userID, op))
	}
	return results, nil
}

// applyOne maps a single operation onto a store mutation. Later operations in
// the batch may depend on rows written here, so callers must not reorder or
// parallelize.
func (s *SyncService) applyOne(ctx context.Context, userID int64, op models.SyncOperation) models.SyncResult {
	res := models.SyncResult{Operation: op.Operation}

	switch op.Operation {
	case models.OpCreate:
		rec, err := s.repo.Insert(ctx, userID, op.Data, op.MobileID)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Success = true
		res.Record = rec

	case models.OpUpdate:
		// A nil mobile id can never match a row; report the same
		// successful no-op a non-matching id would produce.
		if op.MobileID == nil {
			res.Success = true
			return res
		}
		rec, err := s.repo.UpdateByMobileID(ctx, userID, *op.MobileID, op.Data)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Success = true
		res.Record = rec

	case models.OpDelete:
		if op.MobileID == nil {
			res.Success = true
			return res
		}
		if err := s.repo.SoftDeleteByMobileID(ctx, userID, *op.MobileID); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Success = true

	default:
		res.Error = fmt.Sprintf("unknown operation %q", string(op.Operation))
	}

	return res
}

// CreateRecord stores a new record created directly on the server.
func (s *SyncService) CreateRecord(ctx context.Context, userID int64, data models.RecordData) (*models.SecretRecord, error) {
	if userID == 0 || data.Title == "" {
		return nil, models.ErrValidation
	}
	return s.repo.Insert(ctx, userID, data, nil)
}

// ListRecords returns all live records for the user, newest first.
func (s *SyncService) ListRecords(ctx context.Context, userID int64) ([]models.SecretRecord, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateRecord rewrites content fields of a record by primary key.
// A missing or tombstoned record fails with models.ErrRecordNotFound.
func (s *SyncService) UpdateRecord(ctx context.Context, id int64, data models.RecordData) (*models.SecretRecord, error) {
	rec, err := s.repo.UpdateByID(ctx, id, data)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.ErrRecordNotFound
	}
	return rec, nil
}

// DeleteRecord tombstones a record by primary key. A missing or already
// tombstoned record fails with models.ErrRecordNotFound.
func (s *SyncService) DeleteRecord(ctx context.Context, id int64) error {
	ok, err := s.repo.SoftDeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrRecordNotFound
	}
	return nil
}
