package service

import (
	"context"
	"database/sql"
	"errors"

	"memberhub-backend/internal/domain"
)

// mapStoreError normalizes store failures into the error taxonomy. Typed
// domain errors pass through untouched; deadline expiry becomes a timeout;
// everything else is a transaction-level abort, safe to retry.
func mapStoreError(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTimeoutError(err)
	}
	return domain.NewTransactionFailedError(err)
}

// mapReadError is mapStoreError plus the not-found translation for reads.
func mapReadError(err error, notFoundMsg string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(notFoundMsg, args...)
	}
	return mapStoreError(err)
}
