package stores

import (
	"context"
	"errors"

	"dbperf-analytics/internal/models"
)

var ErrOperationLogNotLoaded = errors.New("operation log not loaded")

// OperationLogStore hands out the operation log loaded at startup. The log is shared
// by every caller and must be treated as read-only.
//
//go:generate mockgen -source=operation_log_store.go -destination=./mocks/operation_log_store_mock.go -package=mocks
type OperationLogStore interface {
	Get(ctx context.Context) (*models.OperationLog, error)
}

type operationLogStore struct {
	log *models.OperationLog
}

func NewOperationLogStore(log *models.OperationLog) OperationLogStore {
	return &operationLogStore{log: log}
}

func (s *operationLogStore) Get(ctx context.Context) (*models.OperationLog, error) {
	if s.log == nil {
		return nil, ErrOperationLogNotLoaded
	}
	return s.log, nil
}
