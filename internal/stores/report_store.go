package stores

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"dbperf-analytics/internal/shared/filestorages"
	"dbperf-analytics/internal/shared/ulid"
)

var (
	ErrReportArtifactExists = errors.New("report artifact already exists")
	ErrReportNotFound       = errors.New("report not found")
	ErrInvalidReportID      = errors.New("invalid report id")
	ErrInvalidArtifactName  = errors.New("invalid artifact name")
)

// ReportStore keeps rendered report artifacts (bundle JSON or YAML, Parquet exports)
// grouped by report id. Artifacts are write-once, similar to a conditional object PUT:
//   - Export A writes reports/01J.../bundle.json
//   - A second write of the same key fails with ErrReportArtifactExists
//
//go:generate mockgen -source=report_store.go -destination=./mocks/report_store_mock.go -package=mocks
type ReportStore interface {
	// NewReportID returns a fresh, time-sortable report id.
	NewReportID() string
	// Save writes one artifact and returns its storage key.
	Save(ctx context.Context, reportID, name string, r io.Reader) (string, error)
	Open(ctx context.Context, reportID, name string) (io.ReadCloser, error)
	// List returns the artifact names of a report.
	List(ctx context.Context, reportID string) ([]string, error)
}

type reportStore struct {
	fileStorage filestorages.FileStorage
	dir         string
}

func NewReportStore(fileStorage filestorages.FileStorage) ReportStore {
	return &reportStore{fileStorage: fileStorage, dir: "reports"}
}

func (s *reportStore) NewReportID() string {
	return ulid.NewULID()
}

func (s *reportStore) Save(ctx context.Context, reportID, name string, r io.Reader) (string, error) {
	key, err := s.getKey(reportID, name)
	if err != nil {
		return "", err
	}

	_, err = s.fileStorage.Put(ctx, key, r, filestorages.PutOptions{AllowOverwrite: false})
	if err != nil {
		if errors.Is(err, filestorages.ErrFileAlreadyExists) {
			return "", ErrReportArtifactExists
		}
		return "", fmt.Errorf("failed to put report artifact: %w", err)
	}
	return key, nil
}

func (s *reportStore) Open(ctx context.Context, reportID, name string) (io.ReadCloser, error) {
	key, err := s.getKey(reportID, name)
	if err != nil {
		return nil, err
	}

	rc, err := s.fileStorage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report artifact: %w", err)
	}
	return rc, nil
}

func (s *reportStore) List(ctx context.Context, reportID string) ([]string, error) {
	if !ulid.IsValid(reportID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReportID, reportID)
	}

	prefix := path.Join(s.dir, reportID)
	keys, err := s.fileStorage.List(ctx, prefix)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to list report artifacts: %w", err)
	}

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, prefix+"/"))
	}
	return names, nil
}

func (s *reportStore) getKey(reportID, name string) (string, error) {
	if !ulid.IsValid(reportID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidReportID, reportID)
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidArtifactName, name)
	}
	return fmt.Sprintf("%s/%s/%s", s.dir, reportID, name), nil
}
